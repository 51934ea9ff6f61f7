// Package viewer starts a desktop mapping application on a written KML file.
// Every failure is reported in the result; nothing here is fatal.
package viewer

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pkg/browser"
	"github.com/sirupsen/logrus"
)

// LaunchResult reports whether a viewer process was started.
type LaunchResult struct {
	Started bool
	Message string
}

// DefaultCandidates lists the executables tried per GOOS, in order.
// Absolute paths must exist; bare names are looked up in PATH.
var DefaultCandidates = map[string][]string{
	"windows": {
		`C:\Program Files\Google\Google Earth Pro\client\googleearth.exe`,
		`C:\Program Files (x86)\Google\Google Earth Pro\client\googleearth.exe`,
		"googleearth.exe",
		"qgis-bin.exe",
	},
	"darwin": {
		"/Applications/Google Earth Pro.app/Contents/MacOS/Google Earth",
		"/Applications/QGIS.app/Contents/MacOS/QGIS",
	},
	"linux": {
		"google-earth-pro",
		"/opt/google/earth/pro/google-earth-pro",
		"qgis",
	},
}

type Launcher struct {
	goos       string
	candidates map[string][]string
	fallback   bool
	log        logrus.FieldLogger

	lookPath func(string) (string, error)
	stat     func(string) (os.FileInfo, error)
	start    func(name string, args ...string) error
	openFile func(path string) error
}

type Option func(*Launcher)

// WithCandidates replaces the candidate list of the given GOOS values.
func WithCandidates(c map[string][]string) Option {
	return func(l *Launcher) {
		for goos, list := range c {
			l.candidates[goos] = append([]string(nil), list...)
		}
	}
}

// WithFallback opens the file with the OS default handler when no
// candidate is installed.
func WithFallback(enabled bool) Option {
	return func(l *Launcher) { l.fallback = enabled }
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(l *Launcher) { l.log = log }
}

func New(opts ...Option) *Launcher {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	l := &Launcher{
		goos:       runtime.GOOS,
		candidates: make(map[string][]string, len(DefaultCandidates)),
		fallback:   true,
		log:        discard,
		lookPath:   exec.LookPath,
		stat:       os.Stat,
		start:      startDetached,
		openFile:   browser.OpenFile,
	}
	for goos, list := range DefaultCandidates {
		l.candidates[goos] = append([]string(nil), list...)
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Launch starts the first installed viewer with filePath as its argument and
// returns without waiting for it. label names the project in messages.
func (l *Launcher) Launch(filePath, label string) (res LaunchResult) {
	defer func() {
		if r := recover(); r != nil {
			res = LaunchResult{Message: fmt.Sprintf("viewer launch aborted: %v", r)}
		}
		if res.Started {
			l.log.Info(res.Message)
		} else {
			l.log.Warn(res.Message)
		}
	}()

	project := ""
	if label != "" {
		project = fmt.Sprintf(" for project %q", label)
	}

	abs, err := filepath.Abs(filePath)
	if err != nil {
		abs = filePath
	}
	if _, err := l.stat(abs); err != nil {
		return LaunchResult{Message: fmt.Sprintf("not launching viewer%s: %v", project, err)}
	}

	var failures []string
	for _, c := range l.candidates[l.goos] {
		exe, ok := l.resolve(c)
		if !ok {
			continue
		}
		if err := l.start(exe, abs); err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", exe, err))
			continue
		}
		return LaunchResult{Started: true, Message: fmt.Sprintf("Opened %s in %s%s", abs, filepath.Base(exe), project)}
	}

	if l.fallback {
		if err := l.openFile(abs); err != nil {
			failures = append(failures, fmt.Sprintf("default application: %v", err))
		} else {
			return LaunchResult{Started: true, Message: fmt.Sprintf("Opened %s with the default application%s", abs, project)}
		}
	}

	if len(failures) == 0 {
		return LaunchResult{Message: fmt.Sprintf("no map viewer found on %s%s; open %s manually", l.goos, project, abs)}
	}
	return LaunchResult{Message: fmt.Sprintf("could not launch a map viewer%s: %s", project, strings.Join(failures, "; "))}
}

func (l *Launcher) resolve(candidate string) (string, bool) {
	if strings.ContainsAny(candidate, `/\`) {
		info, err := l.stat(candidate)
		if err != nil || info.IsDir() {
			return "", false
		}
		return candidate, true
	}
	p, err := l.lookPath(candidate)
	if err != nil {
		return "", false
	}
	return p, true
}

func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}
