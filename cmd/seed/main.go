package main

import (
	"context"
	"errors"
	"log"

	"tasktracker/internal/config"
	"tasktracker/internal/db"
	apperrors "tasktracker/internal/errors"
	"tasktracker/internal/model"
	"tasktracker/internal/repository"
	"tasktracker/internal/service"
)

type seedUser struct {
	name  string
	email string
}

type seedTask struct {
	title         string
	description   string
	assigneeEmail string
	status        model.TaskStatus
	dueDate       string
}

var seedUsers = []seedUser{
	{name: "John Doe", email: "john@example.com"},
	{name: "Jane Smith", email: "jane@example.com"},
	{name: "Sam Lee", email: "sam@example.com"},
}

var seedTasks = []seedTask{
	{
		title:         "Complete project documentation",
		description:   "Write the README and API reference.",
		assigneeEmail: "john@example.com",
		status:        model.TaskStatusInProgress,
		dueDate:       "2026-09-15",
	},
	{
		title:         "Set up CI pipeline",
		description:   "Lint, test, and build on every push.",
		assigneeEmail: "jane@example.com",
		status:        model.TaskStatusTodo,
	},
	{
		title:       "Triage incoming bug reports",
		description: "Label and prioritize the backlog.",
		status:      model.TaskStatusTodo,
	},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Task{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	taskRepo := repository.NewTaskRepository(gormDB)

	// No cache for one-shot seeding.
	userService := service.NewUserService(userRepo, nil)
	taskService := service.NewTaskService(taskRepo, userRepo, nil)

	// Users first, so tasks can resolve assignee names. Re-running the seeder
	// skips users that already exist.
	idsByEmail := make(map[string]string, len(seedUsers))
	for _, su := range seedUsers {
		user, err := userService.CreateUser(ctx, su.name, su.email)
		if errors.Is(err, apperrors.ErrEmailExists) {
			existing, findErr := userRepo.FindByEmail(ctx, su.email)
			if findErr != nil {
				log.Fatalf("Failed to load existing user %s: %v", su.email, findErr)
			}
			log.Printf("User %s already exists, skipping", su.email)
			idsByEmail[su.email] = existing.ID.String()
			continue
		}
		if err != nil {
			log.Fatalf("Failed to create user %s: %v", su.email, err)
		}
		idsByEmail[su.email] = user.ID.String()
		log.Printf("Created user %s (%s)", user.Name, user.ID)
	}

	created := 0
	for _, st := range seedTasks {
		input := service.CreateTaskInput{
			Title:       st.title,
			Description: st.description,
			Status:      st.status,
		}
		if st.assigneeEmail != "" {
			id := idsByEmail[st.assigneeEmail]
			input.AssigneeID = &id
		}
		if st.dueDate != "" {
			due := st.dueDate
			input.DueDate = &due
		}
		task, err := taskService.CreateTask(ctx, input)
		if err != nil {
			log.Fatalf("Failed to create task %q: %v", st.title, err)
		}
		created++
		log.Printf("Created task %q (%s)", task.Title, task.ID)
	}

	log.Printf("Seed complete: %d users, %d tasks", len(idsByEmail), created)
}
