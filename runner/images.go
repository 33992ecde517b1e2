package runner

import (
	"bufio"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/docker/docker/api/types"
	"github.com/goccy/go-json"

	"github.com/evcommunities/demo/logger"
)

const imageListFile = "docker_images.txt"

// imageAPI is the slice of the Docker Engine client used for image pulls.
type imageAPI interface {
	ImagePull(ctx context.Context, refStr string, options types.ImagePullOptions) (io.ReadCloser, error)
}

type pullStatus struct {
	Status string `json:"status"`
}

// ReadImageList returns the image references listed in docker_images.txt
// under the configuration folder, one per line with # starting a comment.
func ReadImageList(folder string) ([]string, error) {
	file, err := os.Open(filepath.Join(folder, imageListFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var images []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		images = append(images, line)
	}
	return images, scanner.Err()
}

// PullImages pulls every image listed in the configuration folder so that the
// first simulation launch does not stall on downloads. Failures are logged
// and the remaining images are still pulled.
func PullImages(ctx context.Context, api imageAPI, folder string) error {
	images, err := ReadImageList(folder)
	if err != nil {
		return err
	}
	for _, image := range images {
		logger.Info("Pulling image '%s'", image)
		if err := pullImage(ctx, api, image); err != nil {
			logger.Error("Could not pull image '%s': %v", image, err)
		}
	}
	return nil
}

func pullImage(ctx context.Context, api imageAPI, image string) error {
	stream, err := api.ImagePull(ctx, image, types.ImagePullOptions{})
	if err != nil {
		return err
	}
	defer stream.Close()

	// The pull must be read to completion or the engine aborts it. Only the
	// summary lines are worth logging.
	decoder := json.NewDecoder(stream)
	for {
		var status pullStatus
		if err := decoder.Decode(&status); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if strings.Contains(status.Status, ":") || strings.Contains(status.Status, "from") {
			logger.Debug("%s", status.Status)
		}
	}
}
