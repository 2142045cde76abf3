package main

import (
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/edusenior/eduterm/internal/api"
	"github.com/edusenior/eduterm/internal/session"
	"github.com/edusenior/eduterm/pkg/config"
	"github.com/edusenior/eduterm/pkg/logger"
)

func usage() {
	fmt.Println(`eduterm <command> [args...]

Account:
  register <teacher|student> <email> <password> <full name...>
  login <email> <password>
  logout
  whoami

Study sets:
  sets [--search q] [--subject s] [--type t] [--ownership o] [--sort k] [--tab name]
  set <id>
  create-set <title> <type> [subject]
  update-set <id> <title|subject|type|level|description> <value...>
  offline <id>

Classes:
  classes
  create-class <name> [subject] [level]
  class <id> [students|assignments]
  add-students <class-id> <student-id...>
  remove-student <class-id> <student-id>
  search-users <query>
  assign <class-id> <set-id> [due-date RFC3339]
  export-roster <class-id> <csv|pdf> <file>
  export-assignments <class-id> <csv|pdf> <file>`)
}

type cmdHandler func(*app, []string) error

// app holds the wired collaborators every command needs.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	session *session.Store
	client  *api.Client
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	sess := session.NewStore(cfg.Session.File)
	a := &app{
		cfg:     cfg,
		logger:  logr,
		session: sess,
		client:  api.New(cfg.API.BaseURL, cfg.API.Timeout, sess, logr),
	}

	handlers := map[string]cmdHandler{
		"register":           handleRegister,
		"login":              handleLogin,
		"logout":             handleLogout,
		"whoami":             handleWhoami,
		"sets":               handleSets,
		"set":                handleSet,
		"create-set":         handleCreateSet,
		"update-set":         handleUpdateSet,
		"offline":            handleOffline,
		"classes":            handleClasses,
		"create-class":       handleCreateClass,
		"class":              handleClass,
		"add-students":       handleAddStudents,
		"remove-student":     handleRemoveStudent,
		"search-users":       handleSearchUsers,
		"assign":             handleAssign,
		"export-roster":      handleExportRoster,
		"export-assignments": handleExportAssignments,
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	handler, ok := handlers[cmd]
	if !ok {
		usage()
		os.Exit(2)
	}

	if err := handler(a, args); err != nil {
		fmt.Fprintf(os.Stderr, "%s failed: %v\n", cmd, err)
		os.Exit(1)
	}
}
