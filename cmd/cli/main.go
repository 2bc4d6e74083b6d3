package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"todoevo/config"
	"todoevo/di"
	"todoevo/infras/otel"
	"todoevo/internal/domains/task/model"
	"todoevo/internal/domains/task/model/dto"
	"todoevo/internal/domains/task/service"
	"todoevo/shared/logger"
)

const usage = `usage:
  cli add <owner> <title>
  cli list <owner>
  cli get <owner> <id>
  cli toggle <owner> <id>
  cli update-title <owner> <id> <title>
  cli delete <owner> <id>`

func main() {
	if len(os.Args) < 3 {
		fail(usage)
	}

	cfg := config.Get()

	logger.InitLogger()
	logger.SetLogLevel(cfg)

	db := di.ProvideDB(cfg)
	defer db.Close()

	otl := otel.New(cfg)
	svc := service.New(di.ProvideTaskRepository(cfg, db, otl), otl)

	ctx := context.Background()
	owner := model.OwnerID(os.Args[2])
	args := os.Args[3:]

	switch os.Args[1] {
	case "add":
		if len(args) < 1 {
			fail(usage)
		}

		res, err := svc.Create(ctx, owner, dto.CreateTaskRequest{Title: args[0]})
		if err != nil {
			fail(err.Error())
		}

		printTask(res)
	case "list":
		res, err := svc.GetAll(ctx, owner)
		if err != nil {
			fail(err.Error())
		}

		for _, task := range res.Tasks {
			printTask(task)
		}
	case "get":
		res, err := svc.Get(ctx, owner, parseID(args))
		if err != nil {
			fail(err.Error())
		}

		printTask(res)
	case "toggle":
		res, err := svc.ToggleComplete(ctx, owner, parseID(args))
		if err != nil {
			fail(err.Error())
		}

		printTask(res)
	case "update-title":
		if len(args) < 2 {
			fail(usage)
		}

		res, err := svc.UpdateTitle(ctx, owner, parseID(args), dto.UpdateTitleRequest{Title: args[1]})
		if err != nil {
			fail(err.Error())
		}

		printTask(res)
	case "delete":
		if err := svc.Delete(ctx, owner, parseID(args)); err != nil {
			fail(err.Error())
		}

		fmt.Println("deleted")
	default:
		fail(usage)
	}
}

func parseID(args []string) int64 {
	if len(args) < 1 {
		fail(usage)
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fail("task id must be a positive integer")
	}

	return id
}

func printTask(task dto.TaskResponse) {
	marker := " "
	if task.Completed {
		marker = "x"
	}

	fmt.Printf("[%s] %d\t%s\n", marker, task.ID, task.Title)
}

func fail(message string) {
	fmt.Fprintln(os.Stderr, message)
	os.Exit(1)
}
