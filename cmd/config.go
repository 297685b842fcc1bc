/*
Copyright 2024, Cossack Labs Limited

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package cmd loads command line tool configuration from CLI flags merged
// with per-tool yaml config files.
package cmd

import (
	flag_ "flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/cossacklabs/ripe/utils"
)

var (
	configFile = flag_.String("config_file", "", "path to yaml config")
	dumpConfig = flag_.Bool("dump_config", false, "dump config template to the default config path and exit")
)

func init() {
	flag_.CommandLine.Usage = PrintDefaults
}

// PrintDefaults prints usage for all registered flags in --long-option form
func PrintDefaults() {
	flag_.CommandLine.VisitAll(func(f *flag_.Flag) {
		prefix := "--"
		if len(f.Name) <= 2 {
			prefix = "-"
		}
		line := fmt.Sprintf("  %s%s\n    \t%s", prefix, f.Name, f.Usage)
		if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "0" {
			line += fmt.Sprintf(" (default %q)", f.DefValue)
		}
		fmt.Fprintln(os.Stderr, line)
	})
}

// GenerateYaml renders all registered flags as a commented yaml document,
// with default values when useDefault is set and current values otherwise
func GenerateYaml(output io.Writer, useDefault bool) {
	flag_.CommandLine.VisitAll(func(f *flag_.Flag) {
		value := f.Value.String()
		if useDefault {
			value = f.DefValue
		}
		fmt.Fprintf(output, "# %v\n%v: %v\n\n", f.Usage, f.Name, value)
	})
}

// DumpConfig writes the yaml config template to configPath, creating parent
// directories as needed
func DumpConfig(configPath string, useDefault bool) error {
	absPath, err := utils.AbsPath(configPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0744); err != nil {
		return err
	}
	file, err := os.Create(absPath)
	if err != nil {
		return err
	}
	defer file.Close()
	GenerateYaml(file, useDefault)
	log.Infof("Config dumped to %s", configPath)
	return nil
}

// Parse loads options from CLI args and the yaml config file, CLI args take
// precedence. With --dump_config the tool writes its config template and
// exits
func Parse(defaultConfigPath string) error {
	if err := flag_.CommandLine.Parse(os.Args[1:]); err != nil {
		return err
	}
	configPath := defaultConfigPath
	if *configFile != "" {
		configPath = *configFile
	}
	if *dumpConfig {
		if err := DumpConfig(configPath, true); err != nil {
			return err
		}
		os.Exit(0)
	}
	args, err := argsFromYaml(configPath)
	if err != nil {
		return err
	}
	return flag_.CommandLine.Parse(args)
}

// argsFromYaml turns yaml config entries into a flag argument list for
// options that were not already set on the command line
func argsFromYaml(configPath string) ([]string, error) {
	if configPath == "" {
		return nil, nil
	}
	absPath, err := utils.AbsPath(configPath)
	if err != nil {
		return nil, err
	}
	exists, err := utils.FileExists(absPath)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}
	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, err
	}
	yamlConfig := map[string]interface{}{}
	if err := yaml.Unmarshal(data, &yamlConfig); err != nil {
		return nil, err
	}
	setArgs := make(map[string]bool)
	flag_.Visit(func(f *flag_.Flag) {
		setArgs[f.Name] = true
	})
	var args []string
	flag_.CommandLine.VisitAll(func(f *flag_.Flag) {
		if setArgs[f.Name] {
			return
		}
		if value, ok := yamlConfig[f.Name]; ok && value != nil {
			args = append(args, fmt.Sprintf("--%v=%v", f.Name, value))
		}
	})
	return args, nil
}
