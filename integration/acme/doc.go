// Package acme implements the issuance resource interfaces on top of the
// ACME v2 protocol using the go-acme/lego API client.
//
// The package assumes a pre-registered account: the account URL and private
// key come from configuration, typically via core/config:
//
//	var cfg acme.Config
//	config.MustLoad(&cfg)
//
//	client, err := acme.New(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := issuance.RequestCertificate(ctx, issuance.Config{
//		Account: client,
//		Domains: []string{"example.com"},
//		Strategy: issuance.DNSStrategy{
//			UpdateRecords: publishRecords,
//		},
//	})
//
// All order state lives at the authority; the types here are thin resource
// handles that fetch, command, and poll.
package acme
