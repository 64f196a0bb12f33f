package runner

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/projectdiscovery/checkfile"
	"github.com/projectdiscovery/gologger"
	fileutil "github.com/projectdiscovery/utils/file"
)

func getUserHomeDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		panic(err)
	}
	return homeDir
}

func init() {
	defaultCfgPath := filepath.Join(getUserHomeDir(), fmt.Sprintf(".config/checkfile/config_%v.yaml", version))
	// cache a per-version default config: load it once at process start
	// if present, or write the compiled-in defaults out so the next run
	// (and the user, if they want to edit it) has something to start from.
	if fileutil.FileExists(defaultCfgPath) {
		if bin, err := os.ReadFile(defaultCfgPath); err == nil {
			var cfg checkfile.Config
			errx := yaml.Unmarshal(bin, &cfg)
			if errx == nil {
				checkfile.DefaultConfig = cfg
				return
			}
			gologger.Error().Msgf("checkfile yaml configuration syntax error.\n %v\n.", yaml.FormatError(errx, true, true))
			os.Exit(1)
		}
	}
	if err := validateDir(filepath.Join(getUserHomeDir(), ".config/checkfile")); err != nil {
		gologger.Error().Msgf("checkfile config dir not found and failed to create got: %v", err)
		return
	}
	bin, err := yaml.Marshal(checkfile.DefaultConfig)
	if err != nil {
		gologger.Error().Msgf("failed to marshal default checkfile config got: %v", err)
		return
	}
	if err := os.WriteFile(defaultCfgPath, bin, 0600); err != nil {
		gologger.Error().Msgf("failed to save default config to %v got: %v", defaultCfgPath, err)
	}
}

// validateDir checks if dir exists if not creates it
func validateDir(dirPath string) error {
	if fileutil.FolderExists(dirPath) {
		return nil
	}
	return fileutil.CreateFolder(dirPath)
}
