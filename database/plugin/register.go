// Copyright 2025 Inkline Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package plugin

import (
	"fmt"
	"strings"
	"sync"

	flag "github.com/spf13/pflag"
)

type PluginType int

const (
	PluginTypeMetadata PluginType = iota
	PluginTypeContent
)

// PluginTypeName returns a human-readable name for a plugin type
func PluginTypeName(pluginType PluginType) string {
	switch pluginType {
	case PluginTypeMetadata:
		return "metadata"
	case PluginTypeContent:
		return "content"
	default:
		return "unknown"
	}
}

type PluginOptionType int

const (
	PluginOptionTypeString PluginOptionType = iota
	PluginOptionTypeBool
	PluginOptionTypeInt
)

// PluginOption describes a single configurable option for a plugin. Dest
// must be a pointer matching the option type, written by the flag package
// or by SetPluginOption.
type PluginOption struct {
	Dest         any
	DefaultValue any
	Name         string
	Description  string
	Type         PluginOptionType
}

// PluginEntry is a registry entry for a named plugin
type PluginEntry struct {
	NewFromOptionsFunc func() Plugin
	Name               string
	Description        string
	Options            []PluginOption
	Type               PluginType
}

var (
	pluginEntries []PluginEntry
	registerMutex sync.Mutex
)

// Register adds a plugin entry to the registry. It's expected to be called
// from an init() in each plugin implementation package.
func Register(entry PluginEntry) {
	registerMutex.Lock()
	defer registerMutex.Unlock()
	pluginEntries = append(pluginEntries, entry)
}

// GetPlugins returns the registered plugin entries of the given type
func GetPlugins(pluginType PluginType) []PluginEntry {
	registerMutex.Lock()
	defer registerMutex.Unlock()
	ret := []PluginEntry{}
	for _, entry := range pluginEntries {
		if entry.Type == pluginType {
			ret = append(ret, entry)
		}
	}
	return ret
}

// GetPlugin instantiates the named plugin of the given type using its
// current option values, or returns nil if not found
func GetPlugin(pluginType PluginType, pluginName string) Plugin {
	registerMutex.Lock()
	defer registerMutex.Unlock()
	for _, entry := range pluginEntries {
		if entry.Type == pluginType && entry.Name == pluginName {
			return entry.NewFromOptionsFunc()
		}
	}
	return nil
}

// PopulateCmdlineOptions adds a flag for each registered plugin option,
// named <type>-<plugin>-<option>
func PopulateCmdlineOptions(fs *flag.FlagSet) error {
	registerMutex.Lock()
	defer registerMutex.Unlock()
	for _, entry := range pluginEntries {
		for _, opt := range entry.Options {
			flagName := fmt.Sprintf(
				"%s-%s-%s",
				PluginTypeName(entry.Type),
				strings.ToLower(entry.Name),
				opt.Name,
			)
			switch opt.Type {
			case PluginOptionTypeString:
				dest, ok := opt.Dest.(*string)
				if !ok {
					return fmt.Errorf(
						"wrong destination type for option %s",
						flagName,
					)
				}
				defaultValue, ok := opt.DefaultValue.(string)
				if !ok {
					return fmt.Errorf(
						"wrong default value type for option %s",
						flagName,
					)
				}
				fs.StringVar(dest, flagName, defaultValue, opt.Description)
			case PluginOptionTypeBool:
				dest, ok := opt.Dest.(*bool)
				if !ok {
					return fmt.Errorf(
						"wrong destination type for option %s",
						flagName,
					)
				}
				defaultValue, ok := opt.DefaultValue.(bool)
				if !ok {
					return fmt.Errorf(
						"wrong default value type for option %s",
						flagName,
					)
				}
				fs.BoolVar(dest, flagName, defaultValue, opt.Description)
			case PluginOptionTypeInt:
				dest, ok := opt.Dest.(*int)
				if !ok {
					return fmt.Errorf(
						"wrong destination type for option %s",
						flagName,
					)
				}
				defaultValue, ok := opt.DefaultValue.(int)
				if !ok {
					return fmt.Errorf(
						"wrong default value type for option %s",
						flagName,
					)
				}
				fs.IntVar(dest, flagName, defaultValue, opt.Description)
			default:
				return fmt.Errorf(
					"unknown option type %d for option %s",
					opt.Type,
					flagName,
				)
			}
		}
	}
	return nil
}
