package config

import (
	"os"
	"path/filepath"
	"testing"

	"gocontab/domain/dataset"
	"gocontab/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "chi-square-results.xlsx", cfg.Output.ResultsPath)
	assert.Equal(t, "contingency-tables.xlsx", cfg.Output.ContingencyPath)
	assert.Equal(t, 1, cfg.Analysis.Workers)
	assert.True(t, cfg.Analysis.ShowBanner)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	content := `
input:
  path: bats.xlsx
  sheet: Field
selection:
  categorical: Vertebrate
  numeric1: "2"
  numeric2: "3"
output:
  results: bats-results
analysis:
  workers: 4
  banner: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("GOCONTAB_NUMERIC2", "Positive")
	t.Setenv("GOCONTAB_WORKERS", "not-a-number")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "bats.xlsx", cfg.Input.Path)
	assert.Equal(t, "Field", cfg.Input.Sheet)
	assert.Equal(t, dataset.ColumnRef("Vertebrate"), cfg.Selection.Categorical)
	assert.Equal(t, dataset.ColumnRef("Positive"), cfg.Selection.Numeric2)
	assert.Equal(t, 4, cfg.Analysis.Workers)
	assert.False(t, cfg.Analysis.ShowBanner)
	assert.Equal(t, "contingency-tables.xlsx", cfg.Output.ContingencyPath)

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "bats-results.xlsx", cfg.Output.ResultsPath)
}

func TestLoad_BadFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("input: [unclosed"), 0o644))
	_, err = Load(path)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := Default()
		cfg.Input.Path = "data.csv"
		cfg.Selection = dataset.Selection{Categorical: "1", Numeric1: "2", Numeric2: "3"}
		return cfg
	}
	require.NoError(t, valid().Validate())

	noInput := valid()
	noInput.Input.Path = ""
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(noInput.Validate()))

	noColumn := valid()
	noColumn.Selection.Numeric1 = " "
	err := noColumn.Validate()
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
	assert.Contains(t, err.Error(), "numeric1")

	sameOutput := valid()
	sameOutput.Output.ContingencyPath = "chi-square-results"
	assert.Error(t, sameOutput.Validate())

	badWorkers := valid()
	badWorkers.Analysis.Workers = 0
	assert.Error(t, badWorkers.Validate())

	badLevel := valid()
	badLevel.Analysis.LogLevel = "LOUD"
	assert.Error(t, badLevel.Validate())
}

func TestWithXLSX(t *testing.T) {
	assert.Equal(t, "out.xlsx", WithXLSX("out"))
	assert.Equal(t, "out.xlsx", WithXLSX(" out.xlsx "))
	assert.Equal(t, "dir/out.xlsx", WithXLSX("dir/out"))
	assert.Equal(t, "", WithXLSX(""))
}
