package argot

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/BurntSushi/toml"
	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// profileData maps command name -> argument key -> raw default value.
type profileData map[string]map[string]string

// Profile holds per-command raw default argument values loaded from a
// JSON, YAML or TOML file. Profile values are overlaid as argument
// defaults: like declared defaults they bypass validators, and they
// never override explicitly supplied tokens. The parser itself stays
// free of file I/O; a Profile is an outer-layer collaborator.
//
// A watched Profile reloads on file change with the snapshot
// discipline below: readers holding a Defaults() copy keep a
// consistent view while the pointer is swapped under them.
type Profile struct {
	path string
	cur  atomic.Pointer[profileData]

	// these are for live update
	watched bool
	events  chan fsnotify.Event
}

// LoadProfile reads the profile once.
func LoadProfile(path string) (*Profile, error) {
	p := &Profile{path: path}
	if err := p.reload(); err != nil {
		return nil, err
	}
	return p, nil
}

// WatchProfile reads the profile and reloads it whenever the file
// changes, including atomic-save renames and symlink target swaps.
func WatchProfile(path string) (*Profile, error) {
	p := &Profile{path: path, watched: true}
	if err := p.reload(); err != nil {
		return nil, err
	}
	p.events = make(chan fsnotify.Event, 2)
	if err := p.watchChange(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Profile) reload() error {
	content, err := os.ReadFile(p.path)
	if err != nil {
		return err
	}

	decodeOrder := []unmarshalFn{
		json.Unmarshal, yaml.Unmarshal, toml.Unmarshal,
	}
	if strings.HasSuffix(p.path, ".yaml") || strings.HasSuffix(p.path, ".yml") {
		decodeOrder = []unmarshalFn{yaml.Unmarshal}
	} else if strings.HasSuffix(p.path, ".json") {
		decodeOrder = []unmarshalFn{json.Unmarshal}
	} else if strings.HasSuffix(p.path, ".toml") {
		decodeOrder = []unmarshalFn{toml.Unmarshal}
	}

	data, err := decodeByOrder(content, decodeOrder)
	if err != nil {
		return err
	}
	p.cur.Store(&data)
	return nil
}

// Defaults returns a copy of the raw default values recorded for
// command, matched case-insensitively. A nil map means the profile has
// nothing for that command.
func (p *Profile) Defaults(command string) map[string]string {
	data := p.cur.Load()
	if data == nil {
		return nil
	}
	for name, vals := range *data {
		if strings.EqualFold(name, command) {
			out := make(map[string]string, len(vals))
			for k, v := range vals {
				out[k] = v
			}
			return out
		}
	}
	return nil
}

// UpdateEvents returns a channel receiving one event per applied
// reload of a watched profile. Events are dropped, not queued, when
// the channel is full.
func (p *Profile) UpdateEvents() <-chan fsnotify.Event {
	return p.events
}

func (p *Profile) watchChange() error {
	profileFile := filepath.Clean(p.path)
	profileDir, _ := filepath.Split(profileFile)
	realProfileFile, _ := filepath.EvalSymlinks(p.path)

	// watch the entire directory to pick up renames/atomic saves in a
	// cross-platform way
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(profileDir); err != nil {
		watcher.Close()
		return err
	}

	go func(watcher *fsnotify.Watcher) {
		defer watcher.Close()
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok { // 'Events' channel is closed
					return
				}
				currentProfileFile, _ := filepath.EvalSymlinks(p.path)
				// we only care about the profile file with the following cases:
				// 1 - if the profile file was modified or created
				// 2 - if the real path to the profile file changed
				if (filepath.Clean(event.Name) == profileFile &&
					(event.Has(fsnotify.Write) || event.Has(fsnotify.Create))) ||
					(currentProfileFile != "" && currentProfileFile != realProfileFile) {
					realProfileFile = currentProfileFile
					if err := p.reload(); err != nil {
						slog.Default().Warn("profile reload failed",
							"path", p.path, "error", err)
						continue
					}
					select {
					case p.events <- event:
					default:
						// if p.events blocks, discard this event
					}
				} else if filepath.Clean(event.Name) == profileFile &&
					event.Has(fsnotify.Remove) {
					return
				}

			case err, ok := <-watcher.Errors:
				if ok { // 'Errors' channel is not closed
					slog.Default().Warn("profile watcher error", "error", err)
				}
				return
			}
		}
	}(watcher)
	return nil
}

// this is a generic unmarshal function
// json, yaml, toml all implemented this
type unmarshalFn func(data []byte, v any) error

func decodeByOrder(content []byte, decodeOrder []unmarshalFn) (profileData, error) {
	elist := []error{}
	for _, unmarshal := range decodeOrder {
		var data profileData
		if err := unmarshal(content, &data); err == nil {
			return data, nil
		} else {
			elist = append(elist, err)
		}
	}
	return nil, errList(elist)
}

type errList []error

func (el errList) Error() string {
	ret := []string{}
	for _, e := range el {
		ret = append(ret, fmt.Sprintf("[%s]", e.Error()))
	}
	return strings.Join(ret, " ")
}
