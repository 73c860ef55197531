package export

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sadopc/focus/internal/model"
)

func ToYAML(sessions []model.Session, categories []model.Category, path string) error {
	data, err := yaml.Marshal(newDocument(sessions, categories))
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write yaml file: %w", err)
	}
	return nil
}
