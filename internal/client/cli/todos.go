package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/todoapi/internal/client/models"
)

// parseListArgs reads an optional leading "done", "open" or "all" and treats
// the remaining words as search text.
func parseListArgs(args []string) models.TodoFilter {
	var f models.TodoFilter
	if len(args) > 0 {
		switch args[0] {
		case "done":
			v := true
			f.Completed = &v
			args = args[1:]
		case "open":
			v := false
			f.Completed = &v
			args = args[1:]
		case "all":
			args = args[1:]
		}
	}
	f.Query = strings.Join(args, " ")
	return f
}

func (a *App) List(ctx context.Context, args []string) error {
	var items []models.Todo
	err := a.call(func() error {
		var err error
		items, err = a.api.ListTodos(ctx, parseListArgs(args))
		return err
	})
	if err != nil {
		return err
	}

	a.lastList = items
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No todos.")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for i, t := range items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", i+1, checkbox(t.Completed), t.Description, t.ID)
	}
	return w.Flush()
}

func (a *App) Show(ctx context.Context, args []string) error {
	id, err := a.resolveID(args)
	if err != nil {
		return err
	}

	var t *models.Todo
	err = a.call(func() error {
		var err error
		t, err = a.api.GetTodo(ctx, id)
		return err
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s %s\n", checkbox(t.Completed), t.Description)
	fmt.Fprintf(a.out, "id:      %s\n", t.ID)
	fmt.Fprintf(a.out, "created: %s\n", t.CreatedAt.Local().Format("2006-01-02 15:04"))
	fmt.Fprintf(a.out, "updated: %s\n", t.UpdatedAt.Local().Format("2006-01-02 15:04"))
	return nil
}

// Add creates a todo from the arguments, or prompts for the text when there
// are none.
func (a *App) Add(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}

	desc := strings.Join(args, " ")
	if desc == "" {
		var err error
		if desc, err = getSimpleText(a.reader, "Description", a.out); err != nil {
			return err
		}
	}

	var t *models.Todo
	err := a.call(func() error {
		var err error
		t, err = a.api.CreateTodo(ctx, desc, false)
		return err
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Added %s\n", t.ID)
	return nil
}

func (a *App) Edit(ctx context.Context, args []string) error {
	id, err := a.resolveID(args)
	if err != nil {
		return err
	}
	desc, err := getSimpleText(a.reader, "New description", a.out)
	if err != nil {
		return err
	}
	return a.update(ctx, id, models.TodoPatch{Description: &desc})
}

func (a *App) Done(ctx context.Context, args []string) error {
	return a.setCompleted(ctx, args, true)
}

func (a *App) Undo(ctx context.Context, args []string) error {
	return a.setCompleted(ctx, args, false)
}

func (a *App) setCompleted(ctx context.Context, args []string, completed bool) error {
	id, err := a.resolveID(args)
	if err != nil {
		return err
	}
	return a.update(ctx, id, models.TodoPatch{Completed: &completed})
}

func (a *App) update(ctx context.Context, id string, patch models.TodoPatch) error {
	var t *models.Todo
	err := a.call(func() error {
		var err error
		t, err = a.api.UpdateTodo(ctx, id, patch)
		return err
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s %s\n", checkbox(t.Completed), t.Description)
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := a.resolveID(args)
	if err != nil {
		return err
	}

	if err := a.call(func() error { return a.api.DeleteTodo(ctx, id) }); err != nil {
		return err
	}

	a.lastList = nil
	fmt.Fprintln(a.out, "Deleted")
	return nil
}

// resolveID accepts a position in the last listing or a literal id.
func (a *App) resolveID(args []string) (string, error) {
	if !a.isLoggedIn() {
		return "", errNotLoggedIn
	}
	if len(args) != 1 {
		return "", errors.New("expected exactly one todo number or id")
	}

	arg := strings.TrimPrefix(args[0], "#")
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(a.lastList) {
			return "", fmt.Errorf("no todo #%d in the last listing, run 'list' first", n)
		}
		return a.lastList[n-1].ID, nil
	}
	return args[0], nil
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}
