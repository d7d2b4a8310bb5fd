package dto

import "todoApp/internal/models/task"

const createdAtLayout = "2006-01-02 15:04 UTC"

// TaskView is what the list page renders for one task.
type TaskView struct {
	ID        string `json:"id"`
	Text      string `json:"task"`
	Status    string `json:"status"`
	Done      bool   `json:"done"`
	CreatedAt string `json:"created_at,omitempty"`
}

func FromTask(t *task.Task) TaskView {
	view := TaskView{
		ID:     t.ID,
		Text:   t.Text,
		Status: string(t.Status),
		Done:   t.IsDone(),
	}
	if !t.CreatedAt.IsZero() {
		view.CreatedAt = t.CreatedAt.UTC().Format(createdAtLayout)
	}
	return view
}

func FromTaskList(tasks []*task.Task) []TaskView {
	result := make([]TaskView, len(tasks))
	for i, t := range tasks {
		result[i] = FromTask(t)
	}
	return result
}

// ListPage is the data passed to the list template.
type ListPage struct {
	Tasks []TaskView
	Total int
	Done  int
}

func NewListPage(tasks []*task.Task) ListPage {
	views := FromTaskList(tasks)
	done := 0
	for _, v := range views {
		if v.Done {
			done++
		}
	}
	return ListPage{
		Tasks: views,
		Total: len(views),
		Done:  done,
	}
}
