package validation

import (
	"strings"

	"github.com/adanyl0v/taskflow/internal/models"
)

var (
	nameRules = []Rule{
		{Tag: "min=3", Message: "Name must be at least 3 characters"},
		{Tag: "max=20", Message: "Name must be at most 20 characters"},
	}
	projectNameRules = []Rule{
		{Tag: "min=3", Message: "Name must be at least 3 characters"},
		{Tag: "max=20", Message: "Name must be at most 20 characters"},
		{Tag: "alnumunderscore", Message: "Name must not contain special characters"},
	}
	emailRules = []Rule{
		{Tag: "email", Message: "Invalid email address."},
	}
	passwordRules = []Rule{
		{Tag: "min=8", Message: "Password must be at least 8 characters"},
	}
	titleRules = []Rule{
		{Tag: "min=3", Message: "Title must be at least 3 characters"},
		{Tag: "max=50", Message: "Title must be at most 50 characters"},
	}
	descriptionRules = []Rule{
		{Tag: "min=5", Message: "Description must be at least 5 characters"},
		{Tag: "max=200", Message: "Description must be at most 200 characters"},
	}
	statusRules = []Rule{
		{
			Tag:     "oneof=" + strings.Join(models.Statuses, " "),
			Message: "Status must be one of " + strings.Join(models.Statuses, ", "),
		},
	}
)

var SignupSchema = Schema{
	Name: "Signup",
	Fields: []Field{
		{
			Name: "name", Label: "Name", Type: TypeString, Required: true,
			Transforms: []Transform{Trim},
			Rules:      nameRules,
		},
		{
			Name: "username", Label: "Username", Type: TypeString, Required: true,
			Transforms: []Transform{Trim, Lowercase},
			Rules: []Rule{
				{Tag: "min=3", Message: "Username must be at least 3 characters"},
				{Tag: "max=20", Message: "Username must be at most 20 characters"},
				{Tag: "alnumunderscore", Message: "Username must not contain special characters"},
			},
		},
		{Name: "email", Label: "Email", Type: TypeString, Required: true, Rules: emailRules},
		{Name: "password", Label: "Password", Type: TypeString, Required: true, Rules: passwordRules},
	},
}

var SigninSchema = Schema{
	Name: "Signin",
	Fields: []Field{
		{Name: "email", Label: "Email", Type: TypeString, Required: true, Rules: emailRules},
		{Name: "password", Label: "Password", Type: TypeString, Required: true, Rules: passwordRules},
	},
}

var CreateProjectSchema = Schema{
	Name: "Create Project",
	Fields: []Field{
		{
			Name: "name", Label: "Name", Type: TypeString, Required: true,
			Transforms: []Transform{Trim},
			Rules:      projectNameRules,
		},
	},
}

var UpdateProjectSchema = Schema{
	Name: "Update Project",
	Fields: []Field{
		{
			Name: "id", Label: "ID", Type: TypeNumeric, Required: true,
			TypeMessage: "ID must be a number",
		},
		{
			Name: "name", Label: "Name", Type: TypeString, Required: true,
			Transforms: []Transform{Trim},
			Rules:      projectNameRules,
		},
	},
}

var CreateTaskSchema = Schema{
	Name: "Create Task",
	Fields: []Field{
		{Name: "title", Label: "Title", Type: TypeString, Required: true, Rules: titleRules},
		{Name: "description", Label: "Description", Type: TypeString, Required: true, Rules: descriptionRules},
		{Name: "status", Label: "Status", Type: TypeString, Default: models.StatusTodo, Rules: statusRules},
		{Name: "dueDate", Label: "Due date", Type: TypeDate, Required: true},
		{
			Name: "projectId", Label: "Project ID", Type: TypeNumber, Required: true,
			RequiredMessage: "Project ID is required",
		},
		{
			Name: "assignedTo", Label: "Assigned user ID", Type: TypeString, Required: true,
			Rules: []Rule{{Tag: "min=1", Message: "Assigned user ID is required"}},
		},
	},
}

var UpdateTaskSchema = Schema{
	Name: "Update Task",
	Fields: []Field{
		{Name: "title", Label: "Title", Type: TypeString, Rules: titleRules},
		{Name: "description", Label: "Description", Type: TypeString, Rules: descriptionRules},
		{Name: "dueDate", Label: "Due date", Type: TypeDate},
	},
}

var UpdateTaskStatusSchema = Schema{
	Name: "Update Task",
	Fields: []Field{
		{
			Name: "status", Label: "Status", Type: TypeString, Required: true,
			RequiredMessage: "Status is required",
			Rules:           statusRules,
		},
	},
}
