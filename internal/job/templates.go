package job

import (
	"embed"
	"fmt"
	"os"
)

//go:embed templates/*.tpl
var builtinTemplates embed.FS

// Built-in template names, usable wherever a template path is expected.
const (
	TplRunGaussJob = "run_gauss_job.tpl"
	TplSbatch      = "sbatch.tpl"
)

// LoadTemplate reads a template by path. Names of built-in templates resolve
// to the embedded copies so a fresh install works without any template files
// on disk; anything else is read from the filesystem.
func LoadTemplate(path string) (string, error) {
	switch path {
	case TplRunGaussJob, TplSbatch:
		data, err := builtinTemplates.ReadFile("templates/" + path)
		if err != nil {
			return "", fmt.Errorf("%w: embedded %s: %v", ErrTemplateNotFound, path, err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrTemplateNotFound, path, err)
	}
	return string(data), nil
}
