// Package storage persists experiment results using BoltDB.
//
// Train and test results live in separate buckets under the key
// "classifier_dataset_seed", so re-running an experiment with the same identity
// overwrites its previous results.
package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"tsexp/internal/results"
)

const (
	trainBucket = "train_results" // Results of train-error self-estimation
	testBucket  = "test_results"  // Results of the test phase

	dbFile = "tsexp-results.db"
)

// Phase selects which bucket a Results belongs to.
type Phase string

const (
	PhaseTrain Phase = "train"
	PhaseTest  Phase = "test"
)

func (p Phase) bucket() (string, error) {
	switch p {
	case PhaseTrain:
		return trainBucket, nil
	case PhaseTest:
		return testBucket, nil
	default:
		return "", fmt.Errorf("unknown phase %q", p)
	}
}

// Store provides persistent storage for experiment results.
type Store struct {
	db *bbolt.DB
}

// New opens (or creates) the results database under dataPath.
func New(dataPath string) (*Store, error) {
	dbPath := filepath.Join(dataPath, dbFile)

	db, err := bbolt.Open(dbPath, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(trainBucket)); err != nil {
			return fmt.Errorf("create train bucket: %w", err)
		}
		if _, err := tx.CreateBucketIfNotExists([]byte(testBucket)); err != nil {
			return fmt.Errorf("create test bucket: %w", err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Key builds the storage key for an experiment identity.
func Key(classifier, dataset string, seed int64) string {
	return fmt.Sprintf("%s_%s_%d", classifier, dataset, seed)
}

// Save stores r under the key derived from its details.
func (s *Store) Save(phase Phase, r *results.Results) error {
	if r == nil {
		return fmt.Errorf("save %s results: nil results", phase)
	}
	bucket, err := phase.bucket()
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucket))

		data, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("marshal results: %w", err)
		}

		d := r.Details
		return b.Put([]byte(Key(d.ClassifierName, d.DatasetName, d.Seed)), data)
	})
}

// SaveTrain stores train-estimate results.
func (s *Store) SaveTrain(r *results.Results) error { return s.Save(PhaseTrain, r) }

// SaveTest stores test results.
func (s *Store) SaveTest(r *results.Results) error { return s.Save(PhaseTest, r) }

// Get loads the results stored under key. found is false when the key is absent.
func (s *Store) Get(phase Phase, key string) (r *results.Results, found bool, err error) {
	bucket, err := phase.bucket()
	if err != nil {
		return nil, false, err
	}
	err = s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(bucket)).Get([]byte(key))
		if data == nil {
			return nil
		}
		r = &results.Results{}
		if err := json.Unmarshal(data, r); err != nil {
			return fmt.Errorf("unmarshal results %s: %w", key, err)
		}
		found = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return r, found, nil
}

// Keys lists the stored keys that start with prefix, in key order. An empty prefix
// lists everything.
func (s *Store) Keys(phase Phase, prefix string) ([]string, error) {
	bucket, err := phase.bucket()
	if err != nil {
		return nil, err
	}
	var keys []string
	err = s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket([]byte(bucket)).Cursor()
		p := []byte(prefix)
		for k, _ := c.Seek(p); k != nil && bytes.HasPrefix(k, p); k, _ = c.Next() {
			keys = append(keys, string(k))
		}
		return nil
	})
	return keys, err
}

// List loads every result whose key starts with prefix. Malformed records are skipped.
func (s *Store) List(phase Phase, prefix string) ([]*results.Results, error) {
	bucket, err := phase.bucket()
	if err != nil {
		return nil, err
	}
	var out []*results.Results
	err = s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket([]byte(bucket)).Cursor()
		p := []byte(prefix)
		for k, v := c.Seek(p); k != nil && bytes.HasPrefix(k, p); k, v = c.Next() {
			r := &results.Results{}
			if err := json.Unmarshal(v, r); err != nil {
				continue // Skip malformed records
			}
			out = append(out, r)
		}
		return nil
	})
	return out, err
}

// Delete removes the results stored under key, if any.
func (s *Store) Delete(phase Phase, key string) error {
	bucket, err := phase.bucket()
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucket)).Delete([]byte(key))
	})
}
