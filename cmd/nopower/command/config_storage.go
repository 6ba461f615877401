package command

import (
	"fmt"
	"os"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-nopower/internal/permission"
	"github.com/pixil98/go-nopower/internal/storage"
)

const defaultGrantsFile = "permissions"

type StorageConfig struct {
	DataDir    string `json:"data_dir"`
	ConfigDir  string `json:"config_dir"`
	GrantsFile string `json:"grants_file"`
}

func (c *StorageConfig) validate() error {
	el := errors.NewErrorList()

	if c.DataDir == "" {
		el.Add(fmt.Errorf("storage: data_dir is required"))
	}
	el.Add(checkDir("config_dir", c.ConfigDir))

	return el.Err()
}

func checkDir(name, path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("storage: invalid %s %q: %w", name, path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("storage: %s %q is not a directory", name, path)
	}
	return nil
}

func (c *StorageConfig) grantsFile() *storage.DataFile {
	name := c.GrantsFile
	if name == "" {
		name = defaultGrantsFile
	}
	return storage.NewDataFile(c.DataDir, name)
}

func (c *StorageConfig) BuildPermissions() (*permission.Registry, error) {
	r, err := permission.NewRegistry(c.grantsFile())
	if err != nil {
		return nil, fmt.Errorf("loading permission grants: %w", err)
	}
	return r, nil
}
