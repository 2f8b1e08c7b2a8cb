package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadConfigJSONAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "cfg.json", `{
		"read_file_1": "r1.fastq",
		"adapters": [{"name": "a1", "sequence": "AGATCGGAAGAGC", "where": "BACK", "max_error_rate": 0.1, "min_overlap": 3}]
	}`)

	cfg, err := ReadConfig(path)
	require.NoError(t, err)
	require.Equal(t, 33, cfg.QualityBase)
	require.Equal(t, "any", cfg.PairFilterMode)
	require.Equal(t, "none", cfg.PairedMode)
	require.Equal(t, "trim", cfg.AdapterAction)
	require.Equal(t, 1, cfg.Times)
	require.Equal(t, "adapter", cfg.AlignerChoice)
	require.Equal(t, 1000, cfg.BatchSize)
	require.Equal(t, 1, cfg.NumWorkers)
	require.Equal(t, 4, cfg.ReadQueueSize)
	require.Equal(t, "fastq", cfg.InputFormat)
	require.Equal(t, "fastq", cfg.OutputFormat)
	require.Len(t, cfg.Adapters, 1)
	require.Equal(t, "a1", cfg.Adapters[0].Name)
}

func TestReadConfigTOML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "cfg.toml", `
read_file_1 = "r1.fastq"
quality_cutoff_back = 20
threads = 4
`)
	cfg, err := ReadConfigTOML(path)
	require.NoError(t, err)
	require.Equal(t, 20, cfg.QualityCutoffBack)
	require.Equal(t, 4, cfg.NumWorkers)
	require.Equal(t, 16, cfg.ReadQueueSize) // 4 * threads
}

func TestReadConfigMissingFileErrors(t *testing.T) {
	_, err := ReadConfig("/nonexistent/path/cfg.json")
	require.Error(t, err)
}

func TestValidateRequiresTrimCriteria(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	require.Error(t, cfg.Validate())
}

func TestValidateAcceptsQualityCutoffAlone(t *testing.T) {
	cfg := &Config{QualityCutoffBack: 20}
	applyDefaults(cfg)
	require.NoError(t, cfg.Validate())
}

func TestValidateRejectsUnknownPairFilterMode(t *testing.T) {
	cfg := &Config{QualityCutoffBack: 20, PairFilterMode: "bogus"}
	applyDefaults(cfg) // applyDefaults only fills empty strings, "bogus" survives
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsTooManyAdaptersForInsertAligner(t *testing.T) {
	cfg := &Config{
		AlignerChoice: "insert",
		Adapters: []AdapterSpec{
			{Name: "a1", Sequence: "ACGT", MaxErrorRate: 0.1, MinOverlap: 1},
			{Name: "a2", Sequence: "ACGT", MaxErrorRate: 0.1, MinOverlap: 1},
			{Name: "a3", Sequence: "ACGT", MaxErrorRate: 0.1, MinOverlap: 1},
		},
	}
	applyDefaults(cfg)
	require.Error(t, cfg.Validate())
}
