package catalog

import (
	"runtime"

	"github.com/dgraph-io/badger/v4"
	"github.com/fine-structures/ftrgraph/goftr"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

/***

Catalog database format:

	kTreePrefix, TreeID (16 bytes)   => Snapshot encoding
	kNamePrefix, name                => TreeID (16 bytes)

A name refers to the tree most recently put under it; earlier trees stay reachable by ID.

***/

const (
	kTreePrefix byte = 0x01
	kNamePrefix byte = 0x02
)

type CatalogOpts struct {
	DbPathName string // if empty, the catalog is held in memory
	ReadOnly   bool
}

// Entry is a named tree in a catalog.
type Entry struct {
	Name string
	ID   uuid.UUID
}

// Catalog is a db wrapper storing tree snapshots.
type Catalog struct {
	db       *badger.DB
	readOnly bool
}

func Open(opts CatalogOpts) (*Catalog, error) {
	dbOpts := badger.DefaultOptions(opts.DbPathName)
	dbOpts.ReadOnly = opts.ReadOnly
	dbOpts.Logger = nil
	dbOpts.MetricsEnabled = false

	// Badger for windows currently does not support read-only mode
	if runtime.GOOS == "windows" {
		dbOpts.ReadOnly = false
	}

	if len(opts.DbPathName) == 0 {
		if opts.ReadOnly {
			return nil, errors.Wrap(goftr.ErrBadCatalogParam, "DbPathName must be specified for read-only catalog")
		}
		dbOpts.InMemory = true
	}

	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, errors.Wrapf(err, "open catalog %q", opts.DbPathName)
	}

	return &Catalog{
		db:       db,
		readOnly: opts.ReadOnly,
	}, nil
}

func (cat *Catalog) Close() error {
	if cat.db == nil {
		return nil
	}
	err := cat.db.Close()
	cat.db = nil
	return err
}

func (cat *Catalog) IsReadOnly() bool {
	return cat.readOnly
}

func treeKey(id uuid.UUID) []byte {
	key := make([]byte, 0, 1+len(id))
	key = append(key, kTreePrefix)
	return append(key, id[:]...)
}

func nameKey(name string) []byte {
	key := make([]byte, 0, 1+len(name))
	key = append(key, kNamePrefix)
	return append(key, name...)
}

// Put stores snap under a new ID and makes name refer to it.
func (cat *Catalog) Put(name string, snap *Snapshot) (uuid.UUID, error) {
	if cat.readOnly {
		return uuid.Nil, errors.Wrap(goftr.ErrBadCatalogParam, "catalog is read-only")
	}
	if len(name) == 0 {
		return uuid.Nil, errors.Wrap(goftr.ErrBadCatalogParam, "tree name is empty")
	}

	buf, err := snap.Marshal()
	if err != nil {
		return uuid.Nil, err
	}

	id := uuid.New()
	err = cat.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(treeKey(id), buf); err != nil {
			return err
		}
		return txn.Set(nameKey(name), id[:])
	})
	if err != nil {
		return uuid.Nil, errors.Wrapf(err, "put tree %q", name)
	}

	klog.V(2).Infof("catalog: put %q as %v (%d bytes)", name, id, len(buf))
	return id, nil
}

// Get loads the tree stored under id.
func (cat *Catalog) Get(id uuid.UUID) (*Snapshot, error) {
	snap := &Snapshot{}
	err := cat.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(treeKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return snap.Unmarshal(val)
		})
	})
	if err == badger.ErrKeyNotFound {
		return nil, errors.Wrapf(goftr.ErrTreeNotFound, "tree %v", id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get tree %v", id)
	}
	return snap, nil
}

// Lookup returns the ID of the tree most recently put under name.
func (cat *Catalog) Lookup(name string) (uuid.UUID, error) {
	var id uuid.UUID
	err := cat.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(nameKey(name))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			id, err = uuid.FromBytes(val)
			return err
		})
	})
	if err == badger.ErrKeyNotFound {
		return uuid.Nil, errors.Wrapf(goftr.ErrTreeNotFound, "name %q", name)
	}
	if err != nil {
		return uuid.Nil, errors.Wrapf(err, "lookup %q", name)
	}
	return id, nil
}

// List returns every named tree, by name.
func (cat *Catalog) List() ([]Entry, error) {
	var entries []Entry

	txn := cat.db.NewTransaction(false)
	defer txn.Discard()

	prefix := []byte{kNamePrefix}
	it := txn.NewIterator(badger.IteratorOptions{
		PrefetchValues: true,
		PrefetchSize:   100,
		Prefix:         prefix,
	})
	defer it.Close()

	for it.Seek(prefix); it.Valid(); it.Next() {
		item := it.Item()
		entry := Entry{
			Name: string(item.Key()[1:]),
		}
		err := item.Value(func(val []byte) error {
			var err error
			entry.ID, err = uuid.FromBytes(val)
			return err
		})
		if err != nil {
			return nil, errors.Wrapf(err, "list entry %q", entry.Name)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
