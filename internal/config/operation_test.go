package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waabox/nowpublish/internal/config"
	"github.com/waabox/nowpublish/internal/domain"
)

type mapInputs map[string]string

func (m mapInputs) GetInput(name string) string { return m[name] }

func baseInputs() mapInputs {
	return mapInputs{
		config.InputUsername:      "admin",
		config.InputPassword:      "secret",
		config.InputInstance:      "devinstance",
		config.InputAppSysID:      "abc",
		config.InputVersionFormat: "AutoDetect",
	}
}

func TestBuild_InputsOverrideFile(t *testing.T) {
	in := baseInputs()
	in[config.InputIncrementBy] = "2"
	file := config.File{
		Instance: config.InstanceConfig{Name: "fromfile", Username: "fileuser", Password: "filepass"},
		App:      config.AppConfig{IncrementBy: 5, Workspace: "/from/file"},
	}

	op, err := config.Build(in, config.Runtime{RunNumber: "17", Workspace: "/github/workspace"}, file)
	require.NoError(t, err)
	assert.Equal(t, "devinstance", op.Instance)
	assert.Equal(t, "admin", op.Username)
	assert.Equal(t, domain.FormatAutoDetect, op.Format)
	assert.Equal(t, 2, op.IncrementBy)
	assert.Equal(t, "17", op.RunNumber)
	assert.Equal(t, "/github/workspace", op.Workspace)
}

func TestBuild_FileFillsMissingInputs(t *testing.T) {
	in := mapInputs{config.InputVersionFormat: "detect"}
	file := config.File{
		Instance: config.InstanceConfig{Name: "dev", Username: "u", Password: "p"},
		App:      config.AppConfig{Scope: "x_acme_app", IncrementBy: 3, Workspace: "/ws"},
	}

	op, err := config.Build(in, config.Runtime{}, file)
	require.NoError(t, err)
	assert.Equal(t, "x_acme_app", op.Scope)
	assert.Equal(t, "x_acme_app", op.Identity())
	assert.Equal(t, 3, op.IncrementBy)
	assert.Equal(t, "/ws", op.Workspace)
}

func TestBuild_ConfigurationErrors(t *testing.T) {
	cases := map[string]func(mapInputs){
		"missing identity":   func(m mapInputs) { delete(m, config.InputAppSysID) },
		"both identities":    func(m mapInputs) { m[config.InputScope] = "x_acme_app" },
		"missing instance":   func(m mapInputs) { delete(m, config.InputInstance) },
		"missing password":   func(m mapInputs) { delete(m, config.InputPassword) },
		"missing format":     func(m mapInputs) { delete(m, config.InputVersionFormat) },
		"unknown format":     func(m mapInputs) { m[config.InputVersionFormat] = "semver" },
		"non-numeric amount": func(m mapInputs) { m[config.InputIncrementBy] = "one" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := baseInputs()
			mutate(in)
			_, err := config.Build(in, config.Runtime{}, config.File{})
			require.Error(t, err)
			assert.True(t, domain.IsKind(err, domain.KindConfiguration), err.Error())
		})
	}
}

func TestBuild_NegativeIncrementIsLeftToTheResolver(t *testing.T) {
	in := baseInputs()
	in[config.InputIncrementBy] = "-1"
	op, err := config.Build(in, config.Runtime{}, config.File{})
	require.NoError(t, err)
	assert.Equal(t, -1, op.IncrementBy)
}
