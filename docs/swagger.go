package docs

import "github.com/swaggo/swag"

// @title           Taskboard API
// @version         1.0
// @description     Multi-tenant Kanban API: portfolios, boards, lists, cards and collaboration

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey SessionAuth
// @in header
// @name Cookie
// @description Session cookie issued at login

// @tag.name Auth
// @tag.description Registration, login and session management

// @tag.name Portfolios
// @tag.description Portfolio grouping operations

// @tag.name Boards
// @tag.description Board and membership operations

// @tag.name Lists
// @tag.description List management and ordering

// @tag.name Cards
// @tag.description Card management, movement and assignment

// @tag.name Checklists
// @tag.description Checklist and checklist item operations

// @tag.name Comments
// @tag.description Card comment operations

// @tag.name Notifications
// @tag.description User notification operations

// @tag.name Admin
// @tag.description Administrative surface and audit trail

// Register swagger info
func SwaggerInfo() *swag.Spec {
	return swag.Instance
}
