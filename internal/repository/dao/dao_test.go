package dao

import (
	"fmt"
	"log"
	"os"
	"testing"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	if os.Getenv("SKIP_DOCKER_TESTS") != "" {
		fmt.Println("SKIP_DOCKER_TESTS set, skipping dao tests")
		os.Exit(0)
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("could not construct dockertest pool: %v", err)
	}

	if err = pool.Client.Ping(); err != nil {
		fmt.Printf("docker unavailable, skipping dao tests: %v\n", err)
		os.Exit(0)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_PASSWORD=secret",
			"POSTGRES_USER=test",
			"POSTGRES_DB=test",
			"listen_addresses = '*'",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("could not start postgres container: %v", err)
	}

	dsn := fmt.Sprintf("host=localhost port=%v user=test password=secret dbname=test sslmode=disable", resource.GetPort("5432/tcp"))

	if err = pool.Retry(func() error {
		testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if err != nil {
			return err
		}

		sqlDB, err := testDB.DB()
		if err != nil {
			return err
		}

		return sqlDB.Ping()
	}); err != nil {
		log.Fatalf("could not connect to postgres container: %v", err)
	}

	if err = InitTables(testDB); err != nil {
		log.Fatalf("could not migrate tables: %v", err)
	}

	code := m.Run()

	if err = pool.Purge(resource); err != nil {
		log.Fatalf("could not purge postgres container: %v", err)
	}

	os.Exit(code)
}

var userSequence int

// mustCreateUser inserts a user with the given balance and a unique
// email.
func mustCreateUser(t *testing.T, points int) User {
	t.Helper()

	userSequence++
	user := User{
		Email:           fmt.Sprintf("user%d@example.com", userSequence),
		Password:        "hash",
		Name:            fmt.Sprintf("User %d", userSequence),
		Role:            "user",
		AvailablePoints: points,
	}

	if err := testDB.Create(&user).Error; err != nil {
		t.Fatalf("could not create user: %v", err)
	}

	return user
}

func reloadUser(t *testing.T, id uint) User {
	t.Helper()

	var user User
	if err := testDB.First(&user, id).Error; err != nil {
		t.Fatalf("could not reload user %d: %v", id, err)
	}

	return user
}
