// Package testutil holds helpers shared by integration tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"time"

	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// StartMongo returns a MongoDB connection string for integration tests. When
// MONGODB_URI is set it is used as is; otherwise a disposable mongo container
// is started. The returned func releases the container.
func StartMongo(ctx context.Context) (string, func(), error) {
	if uri := os.Getenv("MONGODB_URI"); uri != "" {
		return uri, func() {}, nil
	}

	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForListeningPort("27017/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		return "", nil, fmt.Errorf("failed to start mongo container: %w", err)
	}

	terminate := func() { _ = container.Terminate(context.Background()) }

	host, err := container.Host(ctx)
	if err != nil {
		terminate()
		return "", nil, err
	}
	port, err := container.MappedPort(ctx, "27017")
	if err != nil {
		terminate()
		return "", nil, err
	}

	return fmt.Sprintf("mongodb://%s:%s", host, port.Port()), terminate, nil
}

// DatabaseName returns a unique database name so test packages running in
// parallel against one server do not collide.
func DatabaseName(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
}
