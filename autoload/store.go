/* Copyright 2021 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package autoload runs per-objfile scripts when object files are
// loaded.  Script sources come from a YAML manifest, a bbolt store, or
// both (store wins).  A failing script is reported and loading
// continues; auto-load must never wedge the engine.
package autoload

import (
	"log"
	"time"

	bolt "go.etcd.io/bbolt"
)

var scriptsBucket = []byte("scripts")

// Store is a bbolt-backed script library, keyed by objfile name.
//
// Not glamorous or efficient.
type Store struct {
	Debug    bool
	filename string
	db       *bolt.DB
}

func NewStore(filename string) *Store {
	return &Store{filename: filename}
}

func (s *Store) Open() error {
	opts := &bolt.Options{
		Timeout: time.Second,
	}
	db, err := bolt.Open(s.filename, 0644, opts)
	if err != nil {
		return err
	}
	s.db = db
	return db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(scriptsBucket)
		return err
	})
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) logf(format string, args ...interface{}) {
	if s.Debug {
		log.Printf("autoload.Store."+format, args...)
	}
}

// PutScript stores the script to run when the named objfile loads.
func (s *Store) PutScript(objfile, src string) error {
	s.logf("PutScript %s (%d bytes)", objfile, len(src))
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(scriptsBucket).Put([]byte(objfile), []byte(src))
	})
}

// GetScript returns the stored script, or false.
func (s *Store) GetScript(objfile string) (string, bool, error) {
	var (
		src  string
		have bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		bs := tx.Bucket(scriptsBucket).Get([]byte(objfile))
		if bs != nil {
			src = string(bs)
			have = true
		}
		return nil
	})
	return src, have, err
}

// DeleteScript removes a stored script.  Removing a missing one is a
// no-op.
func (s *Store) DeleteScript(objfile string) error {
	s.logf("DeleteScript %s", objfile)
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(scriptsBucket).Delete([]byte(objfile))
	})
}
