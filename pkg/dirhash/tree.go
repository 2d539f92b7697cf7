package dirhash

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/blake2b"

	"github.com/dmitrymomot/synckit/pkg/progress"
)

// Tree is a directory hash broken down per entry: every file keeps its own
// content hash, every subdirectory its own Tree, and the directory hash
// combines them so each file is read exactly once.
type Tree struct {
	path     string
	files    []fileEntry
	children []*Tree
	hash     string
}

type fileEntry struct {
	path string
	hash string
}

// NewTree creates an empty tree rooted at path. Entries are added with
// AddFile and AddDir, or by HashTree which builds the whole structure from
// disk.
func NewTree(path string) *Tree {
	return &Tree{path: path}
}

// Path returns the directory path the tree is rooted at.
func (t *Tree) Path() string {
	return t.path
}

// AddFile records a file entry with its precomputed content hash.
func (t *Tree) AddFile(path, hash string) {
	t.files = append(t.files, fileEntry{path: path, hash: hash})
	t.hash = ""
}

// AddDir records a subdirectory entry.
func (t *Tree) AddDir(sub *Tree) {
	t.children = append(t.children, sub)
	t.hash = ""
}

// Hash combines the entry hashes and the directory's own path into one
// hex-encoded BLAKE2b-256 hash. The result is memoized; adding an entry
// invalidates it.
func (t *Tree) Hash() string {
	if t.hash != "" {
		return t.hash
	}

	h, _ := blake2b.New256(nil)
	for _, f := range t.files {
		h.Write([]byte(f.hash))
		h.Write([]byte(f.path))
	}
	for _, sub := range t.children {
		h.Write([]byte(sub.Hash()))
	}
	h.Write([]byte(t.path))

	t.hash = hex.EncodeToString(h.Sum(nil))
	return t.hash
}

type treeNode struct {
	Type     string     `json:"type"`
	Path     string     `json:"path"`
	Hash     string     `json:"hash"`
	Children []treeNode `json:"children,omitempty"`
}

func (t *Tree) node() treeNode {
	n := treeNode{
		Type: "dir",
		Path: t.path,
		Hash: t.Hash(),
	}
	for _, f := range t.files {
		n.Children = append(n.Children, treeNode{Type: "file", Path: f.path, Hash: f.hash})
	}
	for _, sub := range t.children {
		n.Children = append(n.Children, sub.node())
	}
	return n
}

// MarshalJSON renders the tree as nested objects with type, path, hash, and
// children fields.
func (t *Tree) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.node())
}

// HashTree hashes the directory at root recursively and returns its Tree.
// An optional meter is advanced once per hashed file, with its total set to
// the file count up front.
func HashTree(root string, meter *progress.Meter[int]) (*Tree, error) {
	if meter != nil {
		total, err := countFiles(root)
		if err != nil {
			return nil, err
		}
		meter.SetTotal(total)
		meter.Reset()
	}

	tree := NewTree(root)
	if err := fillTree(root, tree, meter); err != nil {
		return nil, err
	}
	tree.Hash()
	return tree, nil
}

func fillTree(dir string, tree *Tree, meter *progress.Meter[int]) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("dirhash: read %s: %w", dir, err)
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			sub := NewTree(path)
			if err := fillTree(path, sub, meter); err != nil {
				return err
			}
			tree.AddDir(sub)
			continue
		}

		hash, err := HashFile(path)
		if err != nil {
			return err
		}
		tree.AddFile(path, hash)

		if meter != nil {
			meter.Increment()
			meter.Notify(progress.Auto)
		}
	}
	return nil
}

func countFiles(root string) (int, error) {
	var total int
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			total++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("dirhash: walk %s: %w", root, err)
	}
	return total, nil
}
