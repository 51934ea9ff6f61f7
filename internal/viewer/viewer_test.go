package viewer

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type fakeInfo struct {
	name string
	dir  bool
}

func (f fakeInfo) Name() string       { return f.name }
func (f fakeInfo) Size() int64        { return 0 }
func (f fakeInfo) Mode() fs.FileMode  { return 0o755 }
func (f fakeInfo) ModTime() time.Time { return time.Time{} }
func (f fakeInfo) IsDir() bool        { return f.dir }
func (f fakeInfo) Sys() any           { return nil }

type harness struct {
	installed map[string]bool // absolute path -> is directory
	inPath    map[string]string
	startErr  map[string]error
	openErr   error
	started   [][]string
	opened    []string
}

func (h *harness) launcher(goos string, opts ...Option) *Launcher {
	l := New(opts...)
	l.goos = goos
	l.stat = func(p string) (os.FileInfo, error) {
		if dir, ok := h.installed[p]; ok {
			return fakeInfo{name: filepath.Base(p), dir: dir}, nil
		}
		return os.Stat(p)
	}
	l.lookPath = func(name string) (string, error) {
		if p, ok := h.inPath[name]; ok {
			return p, nil
		}
		return "", errors.New("executable file not found in $PATH")
	}
	l.start = func(name string, args ...string) error {
		if err := h.startErr[name]; err != nil {
			return err
		}
		h.started = append(h.started, append([]string{name}, args...))
		return nil
	}
	l.openFile = func(p string) error {
		if h.openErr != nil {
			return h.openErr
		}
		h.opened = append(h.opened, p)
		return nil
	}
	return l
}

func kmlFile(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "zones.kml")
	if err := os.WriteFile(p, []byte("<kml/>"), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLaunchFirstInstalledCandidate(t *testing.T) {
	file := kmlFile(t)
	h := &harness{
		installed: map[string]bool{"/opt/google/earth/pro/google-earth-pro": false},
		inPath:    map[string]string{"qgis": "/usr/bin/qgis"},
	}
	res := h.launcher("linux").Launch(file, "Milano")

	if !res.Started {
		t.Fatalf("expected started, got %+v", res)
	}
	want := []string{"/opt/google/earth/pro/google-earth-pro", file}
	if len(h.started) != 1 || strings.Join(h.started[0], "|") != strings.Join(want, "|") {
		t.Fatalf("started %v, want %v", h.started, want)
	}
	if !strings.Contains(res.Message, `project "Milano"`) {
		t.Errorf("message should carry the label: %q", res.Message)
	}
}

func TestLaunchSkipsFailingCandidate(t *testing.T) {
	file := kmlFile(t)
	h := &harness{
		inPath:   map[string]string{"google-earth-pro": "/usr/bin/google-earth-pro", "qgis": "/usr/bin/qgis"},
		startErr: map[string]error{"/usr/bin/google-earth-pro": errors.New("exec format error")},
	}
	res := h.launcher("linux").Launch(file, "")
	if !res.Started || len(h.started) != 1 || h.started[0][0] != "/usr/bin/qgis" {
		t.Fatalf("expected qgis to start, got %+v %v", res, h.started)
	}
}

func TestLaunchIgnoresDirectoryCandidate(t *testing.T) {
	file := kmlFile(t)
	h := &harness{installed: map[string]bool{"/Applications/QGIS.app/Contents/MacOS/QGIS": true}}
	res := h.launcher("darwin", WithFallback(false)).Launch(file, "")
	if res.Started || len(h.started) != 0 {
		t.Fatalf("directory must not be launched: %+v", res)
	}
	if !strings.Contains(res.Message, "no map viewer found") {
		t.Errorf("unexpected message %q", res.Message)
	}
}

func TestLaunchFallback(t *testing.T) {
	file := kmlFile(t)
	h := &harness{}
	res := h.launcher("linux").Launch(file, "")
	if !res.Started || len(h.opened) != 1 || h.opened[0] != file {
		t.Fatalf("expected default app fallback, got %+v %v", res, h.opened)
	}

	h = &harness{openErr: errors.New("xdg-open: not found")}
	res = h.launcher("linux").Launch(file, "p")
	if res.Started {
		t.Fatalf("expected failure, got %+v", res)
	}
	if !strings.Contains(res.Message, "xdg-open: not found") {
		t.Errorf("failure should be reported: %q", res.Message)
	}
}

func TestLaunchCustomCandidates(t *testing.T) {
	file := kmlFile(t)
	h := &harness{inPath: map[string]string{"marble": "/usr/bin/marble", "qgis": "/usr/bin/qgis"}}
	res := h.launcher("linux", WithCandidates(map[string][]string{"linux": {"marble"}})).Launch(file, "")
	if !res.Started || h.started[0][0] != "/usr/bin/marble" {
		t.Fatalf("expected marble, got %+v %v", res, h.started)
	}
	if DefaultCandidates["linux"][0] != "google-earth-pro" {
		t.Fatal("WithCandidates mutated DefaultCandidates")
	}
}

func TestLaunchMissingFile(t *testing.T) {
	h := &harness{inPath: map[string]string{"qgis": "/usr/bin/qgis"}}
	res := h.launcher("linux").Launch(filepath.Join(t.TempDir(), "missing.kml"), "")
	if res.Started || len(h.started) != 0 || len(h.opened) != 0 {
		t.Fatalf("nothing should start for a missing file: %+v", res)
	}
}

func TestLaunchUnknownOS(t *testing.T) {
	file := kmlFile(t)
	h := &harness{}
	res := h.launcher("plan9", WithFallback(false)).Launch(file, "")
	if res.Started || !strings.Contains(res.Message, "plan9") {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestLaunchRecoversPanic(t *testing.T) {
	file := kmlFile(t)
	h := &harness{inPath: map[string]string{"qgis": "/usr/bin/qgis"}}
	l := h.launcher("linux")
	l.start = func(string, ...string) error { panic("boom") }
	res := l.Launch(file, "")
	if res.Started || !strings.Contains(res.Message, "boom") {
		t.Fatalf("expected recovered failure, got %+v", res)
	}
}
