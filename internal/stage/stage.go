// Package stage provides the durable report stage: filesystem-backed object
// storage with HMAC-signed, time-limited retrieval URLs standing in for the
// warehouse's presigned stage URLs.
package stage

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"samforge/internal/logging"
)

// Stage is a named durable file store with presigned URL support.
type Stage struct {
	name       string
	root       string
	baseURL    string
	signingKey []byte
	urlTTL     time.Duration
}

// Config holds stage settings.
type Config struct {
	Name       string        // stage name, e.g. "PDF_REPORTS"
	Root       string        // filesystem root for stored objects
	BaseURL    string        // URL prefix for presigned links
	SigningKey string        // HMAC key; generated if empty
	URLTTL     time.Duration // presigned URL lifetime
}

// New creates (or reopens) a stage rooted at cfg.Root/cfg.Name.
func New(cfg Config) (*Stage, error) {
	timer := logging.StartTimer(logging.CategoryStage, "New")
	defer timer.Stop()

	if cfg.Name == "" {
		return nil, fmt.Errorf("stage name required")
	}
	dir := filepath.Join(cfg.Root, cfg.Name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create stage directory: %w", err)
	}

	key := []byte(cfg.SigningKey)
	if len(key) == 0 {
		// Ephemeral key: presigned URLs stay valid for this process only,
		// which matches demo usage. Persist a key via config for longer.
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("failed to generate signing key: %w", err)
		}
	}

	ttl := cfg.URLTTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	logging.Stage("Stage %s ready at %s (url ttl %v)", cfg.Name, dir, ttl)
	return &Stage{
		name:       cfg.Name,
		root:       dir,
		baseURL:    cfg.BaseURL,
		signingKey: key,
		urlTTL:     ttl,
	}, nil
}

// Name returns the stage name.
func (s *Stage) Name() string { return s.name }

// Put writes an object to the stage. Names are caller-qualified (the report
// renderer timestamps them), so puts never overwrite each other in practice;
// an existing object of the same name is replaced, matching stage PUT
// overwrite semantics.
func (s *Stage) Put(name string, data []byte) (string, error) {
	timer := logging.StartTimer(logging.CategoryStage, "Put")
	defer timer.Stop()

	if name == "" || name != filepath.Base(name) {
		return "", fmt.Errorf("invalid object name: %q", name)
	}

	path := filepath.Join(s.root, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		logging.Get(logging.CategoryStage).Error("Failed to write %s: %v", name, err)
		return "", fmt.Errorf("stage write failed: %w", err)
	}

	logging.Stage("Stored %s (%d bytes)", name, len(data))
	return path, nil
}

// PresignURL returns a time-limited retrieval URL for a staged object.
func (s *Stage) PresignURL(name string) (string, error) {
	path := filepath.Join(s.root, name)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("object not staged: %w", err)
	}

	expires := time.Now().Add(s.urlTTL).Unix()
	sig := s.sign(name, expires)

	u := fmt.Sprintf("%s/%s/%s?expires=%d&signature=%s",
		s.baseURL, url.PathEscape(s.name), url.PathEscape(name), expires, sig)
	logging.Stage("Presigned %s (expires %d)", name, expires)
	return u, nil
}

// Verify checks a presigned URL's signature and expiry and returns the local
// path of the object it references.
func (s *Stage) Verify(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("malformed URL: %w", err)
	}
	name := filepath.Base(u.Path)

	expires, err := strconv.ParseInt(u.Query().Get("expires"), 10, 64)
	if err != nil {
		return "", fmt.Errorf("malformed expiry: %w", err)
	}
	if time.Now().Unix() > expires {
		return "", fmt.Errorf("URL expired at %d", expires)
	}

	want := s.sign(name, expires)
	got := u.Query().Get("signature")
	if !hmac.Equal([]byte(want), []byte(got)) {
		return "", fmt.Errorf("signature mismatch for %s", name)
	}

	return filepath.Join(s.root, name), nil
}

// List returns staged object names, newest first.
func (s *Stage) List() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("failed to list stage: %w", err)
	}

	type obj struct {
		name string
		mod  time.Time
	}
	var objs []obj
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		objs = append(objs, obj{e.Name(), info.ModTime()})
	}
	sort.Slice(objs, func(i, j int) bool { return objs[i].mod.After(objs[j].mod) })

	names := make([]string, len(objs))
	for i, o := range objs {
		names[i] = o.name
	}
	return names, nil
}

// Drop removes the stage directory and everything in it.
func (s *Stage) Drop() error {
	logging.Stage("Dropping stage %s", s.name)
	return os.RemoveAll(s.root)
}

func (s *Stage) sign(name string, expires int64) string {
	mac := hmac.New(sha256.New, s.signingKey)
	fmt.Fprintf(mac, "%s/%s:%d", s.name, name, expires)
	return hex.EncodeToString(mac.Sum(nil))
}
