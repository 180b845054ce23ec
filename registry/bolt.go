// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2026 fogline
// SPDX-FileContributor: fogline

package registry

import (
	"encoding/binary"
	"errors"
	"time"

	"go.etcd.io/bbolt"
)

var (
	ErrBucketNotFound = errors.New("bucket not found")
)

const (
	// defaultDbFile is the default file path for the boltdb file.
	defaultDbFile = ".mqttsn-topics"

	// defaultTimeout is the default time to hold a connection to the file.
	defaultTimeout = 250 * time.Millisecond

	defaultBucket = "topics"
)

// BoltOptions contains configuration settings for the bolt store.
type BoltOptions struct {
	Options *bbolt.Options
	Bucket  string `yaml:"bucket" json:"bucket"`
	Path    string `yaml:"path" json:"path"`
}

// BoltStore is a topic binding store backed by a boltdb file, suitable for
// the flash filesystem of a border-router class host.
type BoltStore struct {
	config *BoltOptions
	db     *bbolt.DB
}

// NewBoltStore opens (creating if necessary) a boltdb-backed store.
func NewBoltStore(config *BoltOptions) (*BoltStore, error) {
	if config == nil {
		config = new(BoltOptions)
	}

	if config.Options == nil {
		config.Options = &bbolt.Options{
			Timeout: defaultTimeout,
		}
	}

	if len(config.Path) == 0 {
		config.Path = defaultDbFile
	}

	if len(config.Bucket) == 0 {
		config.Bucket = defaultBucket
	}

	db, err := bbolt.Open(config.Path, 0600, config.Options)
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(config.Bucket))
		return err
	})
	if err != nil {
		return nil, err
	}

	return &BoltStore{
		config: config,
		db:     db,
	}, nil
}

// Set persists one binding.
func (s *BoltStore) Set(name string, id uint16) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(s.config.Bucket))
		if bucket == nil {
			return ErrBucketNotFound
		}

		v := make([]byte, 2)
		binary.BigEndian.PutUint16(v, id)
		return bucket.Put([]byte(name), v)
	})
}

// Delete removes one binding by name.
func (s *BoltStore) Delete(name string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(s.config.Bucket))
		if bucket == nil {
			return ErrBucketNotFound
		}

		return bucket.Delete([]byte(name))
	})
}

// All returns every persisted binding.
func (s *BoltStore) All() (map[string]uint16, error) {
	bindings := map[string]uint16{}
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(s.config.Bucket))
		if bucket == nil {
			return ErrBucketNotFound
		}

		return bucket.ForEach(func(k, v []byte) error {
			if len(v) == 2 {
				bindings[string(k)] = binary.BigEndian.Uint16(v)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return bindings, nil
}

// Close closes the boltdb instance.
func (s *BoltStore) Close() error {
	err := s.db.Close()
	s.db = nil
	return err
}
