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

package plugin_test

import (
	"errors"
	"testing"

	"github.com/inkline-labs/quill/database/plugin"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockPlugin struct {
	startErr error
}

func (m *mockPlugin) Start() error { return m.startErr }
func (m *mockPlugin) Stop() error  { return nil }

func TestRegister(t *testing.T) {
	pluginName := "test-plugin-" + t.Name()
	plugin.Register(plugin.PluginEntry{
		Type:               plugin.PluginTypeContent,
		Name:               pluginName,
		NewFromOptionsFunc: func() plugin.Plugin { return &mockPlugin{} },
	})

	p := plugin.GetPlugin(plugin.PluginTypeContent, pluginName)
	require.NotNil(t, p, "plugin not found")

	plugins := plugin.GetPlugins(plugin.PluginTypeContent)
	found := false
	for _, pl := range plugins {
		if pl.Name == pluginName && pl.Type == plugin.PluginTypeContent {
			found = true
			break
		}
	}
	assert.True(t, found, "plugin not in GetPlugins list")
}

func TestGetPluginsFiltersByType(t *testing.T) {
	contentName := "content-test-" + t.Name()
	metaName := "meta-test-" + t.Name()

	plugin.Register(plugin.PluginEntry{
		Type:               plugin.PluginTypeContent,
		Name:               contentName,
		NewFromOptionsFunc: func() plugin.Plugin { return &mockPlugin{} },
	})
	plugin.Register(plugin.PluginEntry{
		Type:               plugin.PluginTypeMetadata,
		Name:               metaName,
		NewFromOptionsFunc: func() plugin.Plugin { return &mockPlugin{} },
	})

	for _, pl := range plugin.GetPlugins(plugin.PluginTypeContent) {
		assert.Equal(t, plugin.PluginTypeContent, pl.Type)
	}
	for _, pl := range plugin.GetPlugins(plugin.PluginTypeMetadata) {
		assert.Equal(t, plugin.PluginTypeMetadata, pl.Type)
	}
}

func TestStartPluginNotFound(t *testing.T) {
	_, err := plugin.StartPlugin(plugin.PluginTypeContent, "does-not-exist")
	require.Error(t, err)
}

func TestStartPluginError(t *testing.T) {
	pluginName := "failing-plugin-" + t.Name()
	startErr := errors.New("boom")
	plugin.Register(plugin.PluginEntry{
		Type: plugin.PluginTypeContent,
		Name: pluginName,
		NewFromOptionsFunc: func() plugin.Plugin {
			return &mockPlugin{startErr: startErr}
		},
	})

	_, err := plugin.StartPlugin(plugin.PluginTypeContent, pluginName)
	require.ErrorIs(t, err, startErr)
}

func TestSetPluginOption(t *testing.T) {
	pluginName := "opt-plugin-" + t.Name()
	var dataDir string
	plugin.Register(plugin.PluginEntry{
		Type:               plugin.PluginTypeMetadata,
		Name:               pluginName,
		NewFromOptionsFunc: func() plugin.Plugin { return &mockPlugin{} },
		Options: []plugin.PluginOption{
			{
				Name:         "data-dir",
				Type:         plugin.PluginOptionTypeString,
				DefaultValue: "",
				Dest:         &dataDir,
			},
		},
	})

	require.NoError(t, plugin.SetPluginOption(
		plugin.PluginTypeMetadata,
		pluginName,
		"data-dir",
		"/tmp/test",
	))
	assert.Equal(t, "/tmp/test", dataDir)

	// Wrong value type
	require.Error(t, plugin.SetPluginOption(
		plugin.PluginTypeMetadata,
		pluginName,
		"data-dir",
		42,
	))

	// Unknown option is non-fatal
	require.NoError(t, plugin.SetPluginOption(
		plugin.PluginTypeMetadata,
		pluginName,
		"no-such-option",
		"x",
	))
}
