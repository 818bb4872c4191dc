package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"taskboard/internal/config"
	"taskboard/internal/logger"
	"taskboard/internal/model"
	"taskboard/internal/repository"
	"taskboard/internal/store"
)

// Fixture is the seed file layout.
type Fixture struct {
	Users []model.User `json:"users"`
	Tasks []model.Task `json:"tasks"`
}

const fetchTimeout = 30 * time.Second

func main() {
	source := flag.String("fixture", "seed.json", "path or http(s) URL of the fixture to load")
	flag.Parse()

	if err := run(*source); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func run(source string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(os.Stdout, cfg.LogLevel)

	ctx := context.Background()
	st, err := store.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}
	defer func() {
		if err := st.Close(ctx); err != nil {
			log.Warn("store close failed", "error", err)
		}
	}()

	client := &http.Client{Timeout: fetchTimeout}
	fixture, err := loadFixture(ctx, client, source)
	if err != nil {
		return fmt.Errorf("load fixture %s: %w", source, err)
	}
	log.Info("fixture loaded", "users", len(fixture.Users), "tasks", len(fixture.Tasks))

	users, skipped, err := seedUsers(ctx, st.Users, fixture.Users)
	if err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	tasks, err := seedTasks(ctx, st.Tasks, fixture.Tasks, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("seed tasks: %w", err)
	}
	log.Info("seed completed", "users_created", users, "users_skipped", skipped, "tasks_created", tasks)
	return nil
}

// loadFixture reads the fixture from a local path or, for http(s) sources,
// through client.
func loadFixture(ctx context.Context, client *http.Client, source string) (*Fixture, error) {
	var r io.ReadCloser
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, fmt.Errorf("build fixture request: %w", err)
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch fixture: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("fetch fixture: status code %d", resp.StatusCode)
		}
		r = resp.Body
	} else {
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("open fixture: %w", err)
		}
		r = f
	}
	defer r.Close()

	var fixture Fixture
	if err := json.NewDecoder(r).Decode(&fixture); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	return &fixture, nil
}

// seedUsers creates users whose email is not on file yet.
func seedUsers(ctx context.Context, repo repository.UserRepository, users []model.User) (created, skipped int, err error) {
	for _, user := range users {
		if user.Email != "" {
			_, err := repo.FindByEmail(ctx, user.Email)
			if err == nil {
				skipped++
				continue
			}
			if !errors.Is(err, repository.ErrNotFound) {
				return created, skipped, fmt.Errorf("check user %s: %w", user.Email, err)
			}
		}
		if _, err := repo.Create(ctx, &user); err != nil {
			return created, skipped, fmt.Errorf("create user %s: %w", user.Email, err)
		}
		created++
	}
	return created, skipped, nil
}

// seedTasks stores every task, stamping those that carry no timestamp.
func seedTasks(ctx context.Context, repo repository.TaskRepository, tasks []model.Task, now time.Time) (int, error) {
	created := 0
	for _, task := range tasks {
		task.ID = ""
		if task.Timestamp.IsZero() {
			task.Timestamp = now
		}
		if _, err := repo.Create(ctx, &task); err != nil {
			return created, fmt.Errorf("create task: %w", err)
		}
		created++
	}
	return created, nil
}
