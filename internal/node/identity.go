package node

import (
	"crypto/rand"
	"io/ioutil"
	"os"

	"github.com/libp2p/go-libp2p"
	"github.com/libp2p/go-libp2p/core/crypto"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// getIdentity loads the node key from path, creating it on first use. An
// empty path gives the node a fresh key for this run only.
func getIdentity(path string, l *logrus.Entry) (libp2p.Option, error) {
	if path == "" {
		l.Debug("using ephemeral Ed25519 identity")

		priv, _, err := crypto.GenerateKeyPairWithReader(crypto.Ed25519, 0, rand.Reader)
		if err != nil {
			return nil, errors.Wrap(err, "generating priv key")
		}

		return libp2p.Identity(priv), nil
	}

	_, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		l.Debugf("creating a new Ed25519 identity")
		if err := GenerateIdentity(path); err != nil {
			return nil, errors.Wrap(err, "creating new identity")
		}
	} else if err != nil {
		return nil, errors.Wrap(err, "checking identity file")
	} else {
		l.Debugf("using existing Ed25519 identity")
	}

	priv, err := LoadIdentity(path)
	if err != nil {
		return nil, err
	}

	return libp2p.Identity(priv), nil
}

// GenerateIdentity writes a new marshaled Ed25519 private key to path
func GenerateIdentity(path string) error {
	priv, _, err := crypto.GenerateKeyPairWithReader(crypto.Ed25519, 0, rand.Reader)
	if err != nil {
		return errors.Wrap(err, "generating priv key")
	}

	b, err := crypto.MarshalPrivateKey(priv)
	if err != nil {
		return errors.Wrap(err, "marshaling new private key")
	}

	return ioutil.WriteFile(path, b, 0600)
}

func LoadIdentity(path string) (crypto.PrivKey, error) {
	idB, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading identity file")
	}

	priv, err := crypto.UnmarshalPrivateKey(idB)
	if err != nil {
		return nil, errors.Wrap(err, "unmarshaling private key")
	}

	return priv, nil
}
