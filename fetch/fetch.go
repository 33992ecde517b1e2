package fetch

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/evcommunities/demo/logger"
)

const (
	httpTimeout       = 10 * time.Second
	maxFetchAttempts  = 3
	defaultGitLabHost = "https://gitlab.com"
	gitLabTokenHeader = "Private-Token"
)

// fileRequest is a prepared download for one repository file.
type fileRequest struct {
	url      string
	header   http.Header
	filename string
}

// Fetcher downloads manifest files into the manifest folder.
type Fetcher struct {
	configuration *ServerConfiguration
	client        *http.Client
	outputFolder  string

	// requestURL rewrites the request address when set. Used by tests.
	requestURL func(request fileRequest) string
}

// NewFetcher builds a fetcher for the given server configuration writing
// into outputFolder. Certificate checks are disabled only when the
// configuration says so.
func NewFetcher(configuration *ServerConfiguration, outputFolder string) *Fetcher {
	transport := http.DefaultTransport
	if !configuration.Certificate {
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}
	return &Fetcher{
		configuration: configuration,
		client: &http.Client{
			Timeout:   httpTimeout,
			Transport: transport,
		},
		outputFolder: outputFolder,
	}
}

// githubRequest builds the raw content URL for a GitHub repository file.
func githubRequest(repository RepositoryFile, accessToken string, filename string, branch string) fileRequest {
	host := "https://raw.githubusercontent.com"
	if accessToken != "" {
		host = "https://" + accessToken + "@raw.githubusercontent.com"
	}
	return fileRequest{
		url:      strings.Join([]string{host, repository.Repository, branch, filename}, "/"),
		filename: filename,
	}
}

// gitlabRequest builds the repository files API URL for a GitLab file.
func gitlabRequest(repository RepositoryFile, host string, accessToken string, filename string, branch string) fileRequest {
	if host == "" {
		host = defaultGitLabHost
	}
	address := strings.Join([]string{
		host, "api", "v4", "projects",
		url.PathEscape(repository.Repository),
		"repository", "files",
		url.PathEscape(filename),
		"raw",
	}, "/") + "?ref=" + url.QueryEscape(branch)

	header := http.Header{}
	if accessToken != "" {
		header.Set(gitLabTokenHeader, accessToken)
	}
	return fileRequest{url: address, header: header, filename: filename}
}

func (f *Fetcher) request(repository RepositoryFile) (fileRequest, error) {
	filename := repository.Filename
	if filename == "" {
		filename = DefaultFilename
	}
	branch := repository.Branch
	if branch == "" {
		branch = DefaultBranch
	}

	switch f.configuration.Type {
	case GitHub:
		return githubRequest(repository, f.configuration.AccessToken, filename, branch), nil
	case GitLab:
		return gitlabRequest(repository, f.configuration.Host, f.configuration.AccessToken, filename, branch), nil
	}
	return fileRequest{}, fmt.Errorf("repository type '%s' is not supported", f.configuration.Type)
}

// outputFilename places the fetched file under
// <output>/<server type>/<repository name>/<filename>.
func (f *Fetcher) outputFilename(repository RepositoryFile, filename string) string {
	return filepath.Join(
		f.outputFolder,
		strings.ToLower(f.configuration.Type),
		path.Base(repository.Repository),
		path.Base(filename),
	)
}

func (f *Fetcher) download(ctx context.Context, request fileRequest) ([]byte, error) {
	address := request.url
	if f.requestURL != nil {
		address = f.requestURL(request)
	}

	operation := func() ([]byte, error) {
		httpRequest, err := http.NewRequestWithContext(ctx, http.MethodGet, address, nil)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		for name, values := range request.header {
			httpRequest.Header[name] = values
		}

		response, err := f.client.Do(httpRequest)
		if err != nil {
			return nil, err
		}
		defer response.Body.Close()

		contents, err := io.ReadAll(response.Body)
		if err != nil {
			return nil, err
		}
		if response.StatusCode != http.StatusOK {
			return nil, backoff.Permanent(fmt.Errorf(
				"received status '%d' when fetching file '%s': %s",
				response.StatusCode, request.filename, strings.TrimSpace(string(contents))))
		}
		return contents, nil
	}

	return backoff.RetryWithData(
		operation,
		backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxFetchAttempts), ctx),
	)
}

// FetchAll downloads every configured repository file. Failures are logged
// per file and do not stop the remaining downloads.
func (f *Fetcher) FetchAll(ctx context.Context) {
	for _, repository := range f.configuration.Repositories {
		request, err := f.request(repository)
		if err != nil {
			logger.Error("%v", err)
			continue
		}

		logger.Info("Fetching file '%s' from %s repository %s",
			request.filename, f.configuration.Type, repository.Repository)
		contents, err := f.download(ctx, request)
		if err != nil {
			logger.Warn("Repository %s: %v", repository.Repository, err)
			continue
		}

		target := f.outputFilename(repository, request.filename)
		if err := writeFile(contents, target); err != nil {
			logger.Error("Could not write file '%s': %v", target, err)
		}
	}
}

// FetchManifests loads the server configuration file and downloads all the
// manifests it lists into the output folder.
func FetchManifests(ctx context.Context, configurationFile string, outputFolder string) error {
	configuration, err := LoadServerConfiguration(configurationFile)
	if err != nil {
		return err
	}
	NewFetcher(configuration, outputFolder).FetchAll(ctx)
	return nil
}

func writeFile(contents []byte, filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0o777); err != nil {
		return err
	}
	return os.WriteFile(filename, contents, 0o666)
}
