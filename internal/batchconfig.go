package internal

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// BatchDefaults holds target fields applied to jobs that leave them unset.
type BatchDefaults struct {
	Format   string `yaml:"format,omitempty"`
	Encoding string `yaml:"encoding,omitempty"`
}

// BatchJob is one conversion in a batch file. Password fields use the same
// pass:/file: spec syntax as the command line.
type BatchJob struct {
	In          string `yaml:"in"`
	Out         string `yaml:"out"`
	Format      string `yaml:"format,omitempty"`
	Encoding    string `yaml:"encoding,omitempty"`
	Algorithm   string `yaml:"algorithm,omitempty"`
	KeyType     string `yaml:"keyType,omitempty"`
	KeyID       string `yaml:"keyId,omitempty"`
	InPassword  string `yaml:"inPassword,omitempty"`
	OutPassword string `yaml:"outPassword,omitempty"`
}

// batchYAML is the full batch file structure.
type batchYAML struct {
	Defaults *BatchDefaults `yaml:"defaults,omitempty"`
	Jobs     []BatchJob     `yaml:"jobs"`
}

// LoadBatchJobs loads conversion jobs from a YAML file, applying file-level
// defaults to jobs that do not set their own format or encoding.
func LoadBatchJobs(path string) ([]BatchJob, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading batch file: %w", err)
	}

	var cfg batchYAML
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing batch file %s: %w", path, err)
	}
	if len(cfg.Jobs) == 0 {
		return nil, fmt.Errorf("batch file %s contains no jobs", path)
	}

	for i := range cfg.Jobs {
		job := &cfg.Jobs[i]
		if job.In == "" || job.Out == "" {
			return nil, fmt.Errorf("batch job %d: in and out are required", i+1)
		}
		if cfg.Defaults == nil {
			continue
		}
		if job.Format == "" {
			job.Format = cfg.Defaults.Format
		}
		if job.Encoding == "" {
			job.Encoding = cfg.Defaults.Encoding
		}
	}
	return cfg.Jobs, nil
}
