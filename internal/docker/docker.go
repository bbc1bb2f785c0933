package docker

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"

	"cloudgraphx/internal/config"
)

const (
	// ContainerName is the fixed name of the local Neo4j container managed
	// by the start/stop commands.
	ContainerName = "cloudgraphx-neo4j"

	// DataDir is mounted into the container so graph data survives restarts.
	DataDir = "neo4j-data"

	boltPort = "7687"
	httpPort = "7474"
)

// StartContainerOptions bundles the inputs for StartContainer.
type StartContainerOptions struct {
	Config *config.Config
}

// StartContainer pulls the configured Neo4j image if needed and starts a
// container with the credentials from the configuration file.
func StartContainer(ctx context.Context, opts StartContainerOptions) error {
	cfg := opts.Config
	if cfg.Neo4j.Password == "" {
		return fmt.Errorf("neo4j password is not set; run 'cloudgraphx init' first")
	}

	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return fmt.Errorf("failed to create Docker client: %w", err)
	}
	defer cli.Close()

	running, err := findContainer(ctx, cli)
	if err != nil {
		return err
	}
	if running != "" {
		return fmt.Errorf("container %s already exists; run 'cloudgraphx stop' first", ContainerName)
	}

	fmt.Printf("Pulling image %s...\n", cfg.Neo4j.DockerImage)
	reader, err := cli.ImagePull(ctx, cfg.Neo4j.DockerImage, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("failed to pull image %s: %w", cfg.Neo4j.DockerImage, err)
	}
	// The pull completes only once the response body is drained.
	if _, err := io.Copy(io.Discard, reader); err != nil {
		reader.Close()
		return fmt.Errorf("failed to pull image %s: %w", cfg.Neo4j.DockerImage, err)
	}
	reader.Close()

	dataPath, err := filepath.Abs(DataDir)
	if err != nil {
		return fmt.Errorf("failed to resolve data directory: %w", err)
	}
	if err := os.MkdirAll(dataPath, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	portSet, portMap, err := nat.ParsePortSpecs([]string{
		fmt.Sprintf("%s:%s", boltPort, boltPort),
		fmt.Sprintf("%s:%s", httpPort, httpPort),
	})
	if err != nil {
		return fmt.Errorf("failed to build port bindings: %w", err)
	}

	created, err := cli.ContainerCreate(ctx,
		&container.Config{
			Image:        cfg.Neo4j.DockerImage,
			Env:          []string{"NEO4J_AUTH=" + cfg.Neo4j.User + "/" + cfg.Neo4j.Password},
			ExposedPorts: portSet,
		},
		&container.HostConfig{
			PortBindings: portMap,
			Binds:        []string{dataPath + ":/data"},
		},
		nil, nil, ContainerName)
	if err != nil {
		return fmt.Errorf("failed to create container: %w", err)
	}

	if err := cli.ContainerStart(ctx, created.ID, container.StartOptions{}); err != nil {
		return fmt.Errorf("failed to start container: %w", err)
	}

	fmt.Printf("✓ Started Neo4j container %s\n", ContainerName)
	fmt.Printf("  Bolt:    bolt://localhost:%s\n", boltPort)
	fmt.Printf("  Browser: http://localhost:%s\n", httpPort)
	return nil
}

// StopContainer stops and removes the managed Neo4j container, preserving
// the data directory.
func StopContainer(ctx context.Context) error {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return fmt.Errorf("failed to create Docker client: %w", err)
	}
	defer cli.Close()

	containerID, err := findContainer(ctx, cli)
	if err != nil {
		return err
	}
	if containerID == "" {
		return fmt.Errorf("container %s not found", ContainerName)
	}

	fmt.Printf("Stopping container %s...\n", ContainerName)
	timeout := 10 // seconds
	if err := cli.ContainerStop(ctx, containerID, container.StopOptions{Timeout: &timeout}); err != nil {
		// Container might already be stopped, try to remove anyway
		fmt.Printf("Warning: failed to stop container: %v\n", err)
	} else {
		fmt.Printf("✓ Container stopped\n")
	}

	fmt.Printf("Removing container %s...\n", ContainerName)
	if err := cli.ContainerRemove(ctx, containerID, container.RemoveOptions{Force: true}); err != nil {
		return fmt.Errorf("failed to remove container: %w", err)
	}

	fmt.Printf("✓ Container %s removed successfully\n", ContainerName)
	fmt.Printf("\nNote: Data has been preserved in the %s directory\n", DataDir)
	return nil
}

// findContainer returns the id of the managed container, or "" when absent.
func findContainer(ctx context.Context, cli *client.Client) (string, error) {
	containers, err := cli.ContainerList(ctx, container.ListOptions{All: true})
	if err != nil {
		return "", fmt.Errorf("failed to list containers: %w", err)
	}

	for _, c := range containers {
		for _, name := range c.Names {
			if strings.TrimPrefix(name, "/") == ContainerName {
				return c.ID, nil
			}
		}
	}
	return "", nil
}
