package store

import "taskboard/internal/model"

// SampleTasks returns the tasks a fresh session starts with when no seed file is given.
func SampleTasks() []model.Task {
	return []model.Task{
		{
			ID:          "task-1",
			Title:       "Design new homepage",
			Description: "Create wireframes and mockups for the new homepage design",
			Priority:    model.PriorityHigh,
			Assignee:    "JD",
			DueDate:     model.MustDate("2025-07-30"),
			Status:      model.StatusTodo,
		},
		{
			ID:          "task-2",
			Title:       "Setup CI/CD pipeline",
			Description: "Configure automated testing and deployment",
			Priority:    model.PriorityMedium,
			Assignee:    "AS",
			DueDate:     model.MustDate("2025-08-05"),
			Status:      model.StatusTodo,
		},
		{
			ID:          "task-3",
			Title:       "API Integration",
			Description: "Integrate with third-party payment API",
			Priority:    model.PriorityHigh,
			Assignee:    "MK",
			DueDate:     model.MustDate("2025-07-28"),
			Status:      model.StatusInProgress,
		},
		{
			ID:          "task-4",
			Title:       "Update documentation",
			Description: "Review and update API documentation",
			Priority:    model.PriorityLow,
			Assignee:    "TR",
			DueDate:     model.MustDate("2025-07-26"),
			Status:      model.StatusReview,
		},
		{
			ID:          "task-5",
			Title:       "Database optimization",
			Description: "Optimize database queries for better performance",
			Priority:    model.PriorityMedium,
			Assignee:    "JD",
			DueDate:     model.MustDate("2025-07-25"),
			Status:      model.StatusDone,
		},
		{
			ID:          "task-6",
			Title:       "User testing session",
			Description: "Conduct usability testing with 5 users",
			Priority:    model.PriorityHigh,
			Assignee:    "AS",
			DueDate:     model.MustDate("2025-08-01"),
			Status:      model.StatusInProgress,
		},
		{
			ID:          "task-7",
			Title:       "Security audit",
			Description: "Perform comprehensive security review",
			Priority:    model.PriorityHigh,
			Assignee:    "MK",
			DueDate:     model.MustDate("2025-08-03"),
			Status:      model.StatusTodo,
		},
	}
}
