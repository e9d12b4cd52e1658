// Package certstore persists issued certificate artifacts on disk.
//
// Each domain maps to up to three PEM files in the storage directory:
// <domain>.crt, <domain>.key (0600), and <domain>-issuer.crt when the
// authority returned a separate issuer certificate. All writes go through a
// temp file and an atomic rename so readers never observe partial artifacts.
//
//	store, err := certstore.New("/var/cache/certs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	err = store.Save(certstore.Artifacts{
//		Domain:         "example.com",
//		CertificatePEM: []byte(result.CertificatePEM),
//		PrivateKeyPEM:  []byte(keyPEM),
//	})
package certstore
