// Package fetch downloads component manifest files from GitHub and GitLab
// repositories listed in the component configuration file.
package fetch

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/evcommunities/demo/logger"
)

// Supported repository server types.
const (
	GitHub = "GitHub"
	GitLab = "GitLab"
)

// Defaults for files fetched from a repository.
const (
	DefaultFilename = "component_manifest.yml"
	DefaultBranch   = "master"
)

var environmentVariablePattern = regexp.MustCompile(`^\$\{(.+)\}$`)

// RepositoryFile names one file to fetch from one repository. Repository is
// the full name including the user or organization part.
type RepositoryFile struct {
	Repository string
	Filename   string
	Branch     string
}

// ServerConfiguration holds the settings for one repository server and the
// files to fetch from it.
type ServerConfiguration struct {
	Type         string
	Host         string
	Certificate  bool
	AccessToken  string
	Repositories []RepositoryFile
}

type rawRepository struct {
	File   string `yaml:"File"`
	Branch string `yaml:"Branch"`
}

type rawConfiguration struct {
	Type         string    `yaml:"Type"`
	Host         string    `yaml:"Host"`
	Certificate  *bool     `yaml:"Certificate"`
	AccessToken  string    `yaml:"AccessToken"`
	Repositories yaml.Node `yaml:"Repositories"`
}

// evaluateEnvironmentVariable resolves values of the form ${NAME} from the
// environment. Any other value is returned unchanged, as is ${NAME} when the
// variable is not set.
func evaluateEnvironmentVariable(value string) string {
	match := environmentVariablePattern.FindStringSubmatch(value)
	if match == nil {
		return value
	}
	if resolved, found := os.LookupEnv(match[1]); found {
		return resolved
	}
	return value
}

// repositoriesFromMapping reads a mapping of repository name to an optional
// File/Branch block.
func repositoriesFromMapping(node *yaml.Node) []RepositoryFile {
	var repositories []RepositoryFile
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		value := node.Content[i+1]

		switch value.Kind {
		case yaml.ScalarNode:
			if value.Tag != "!!null" {
				logger.Warn("Ignoring repository: %s", name)
				continue
			}
			repositories = append(repositories, RepositoryFile{Repository: name})
		case yaml.MappingNode:
			var settings rawRepository
			if err := value.Decode(&settings); err != nil {
				logger.Warn("Ignoring repository: %s", name)
				continue
			}
			repositories = append(repositories, RepositoryFile{
				Repository: name,
				Filename:   settings.File,
				Branch:     settings.Branch,
			})
		default:
			logger.Warn("Ignoring repository: %s", name)
		}
	}
	return repositories
}

// repositoriesFromNode accepts either a list of repository names, a list
// mixing names with name-to-settings mappings, or one mapping.
func repositoriesFromNode(node *yaml.Node) []RepositoryFile {
	switch node.Kind {
	case yaml.SequenceNode:
		var repositories []RepositoryFile
		for _, item := range node.Content {
			switch item.Kind {
			case yaml.ScalarNode:
				repositories = append(repositories, RepositoryFile{Repository: item.Value})
			case yaml.MappingNode:
				repositories = append(repositories, repositoriesFromMapping(item)...)
			default:
				logger.Warn("Ignoring non supported value for a repository")
			}
		}
		return repositories
	case yaml.MappingNode:
		return repositoriesFromMapping(node)
	default:
		return nil
	}
}

// LoadServerConfiguration reads the repository server settings from a YAML
// file. The access token value may reference an environment variable as
// ${NAME}.
func LoadServerConfiguration(filename string) (*ServerConfiguration, error) {
	contents, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var raw rawConfiguration
	if err := yaml.Unmarshal(contents, &raw); err != nil {
		return nil, err
	}
	if raw.Type != GitHub && raw.Type != GitLab {
		return nil, fmt.Errorf("unknown repository type '%s' found in '%s'", raw.Type, filename)
	}

	host := raw.Host
	if raw.Type == GitHub && host != "" {
		logger.Info("Host name for GitHub repositories will be ignored in '%s'", filename)
		host = ""
	}

	certificate := true
	if raw.Certificate != nil {
		certificate = *raw.Certificate
	}

	accessToken := evaluateEnvironmentVariable(raw.AccessToken)

	return &ServerConfiguration{
		Type:         raw.Type,
		Host:         host,
		Certificate:  certificate,
		AccessToken:  accessToken,
		Repositories: repositoriesFromNode(&raw.Repositories),
	}, nil
}
