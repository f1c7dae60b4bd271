// Package docs registers the OpenAPI description of the API with swag.
// Regenerate with `swag init` after changing handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/": {
            "get": {
                "produces": ["application/json"],
                "tags": ["status"],
                "summary": "Liveness message",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.MessageResponse"}}
                }
            }
        },
        "/api/status": {
            "get": {
                "produces": ["application/json"],
                "tags": ["status"],
                "summary": "API status",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.StatusResponse"}}
                }
            }
        },
        "/api/status/ready": {
            "get": {
                "produces": ["application/json"],
                "tags": ["status"],
                "summary": "Readiness, including the database",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.StatusResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/models.StatusResponse"}}
                }
            }
        },
        "/api/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Create an account",
                "parameters": [
                    {"description": "Account", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.RegisterInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.AuthResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ValidationErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/models.MessageResponse"}}
                }
            }
        },
        "/api/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Exchange credentials for a token",
                "parameters": [
                    {"description": "Credentials", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.LoginInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.AuthResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.MessageResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/models.MessageResponse"}}
                }
            }
        },
        "/api/categories": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["categories"],
                "summary": "List own and global categories",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Category"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.MessageResponse"}}
                }
            },
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["categories"],
                "summary": "Create a category",
                "parameters": [
                    {"description": "Category", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.CategoryInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Category"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ValidationErrorResponse"}}
                }
            }
        },
        "/api/categories/{id}": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["categories"],
                "summary": "Get a category",
                "parameters": [
                    {"type": "integer", "description": "Category ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Category"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.MessageResponse"}}
                }
            },
            "put": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["categories"],
                "summary": "Update an owned category",
                "parameters": [
                    {"type": "integer", "description": "Category ID", "name": "id", "in": "path", "required": true},
                    {"description": "Category", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.CategoryInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Category"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ValidationErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.MessageResponse"}}
                }
            },
            "delete": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["categories"],
                "summary": "Delete an owned, unused category",
                "parameters": [
                    {"type": "integer", "description": "Category ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.MessageResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.MessageResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.MessageResponse"}}
                }
            }
        },
        "/api/transactions": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["transactions"],
                "summary": "List transactions, newest first",
                "parameters": [
                    {"type": "string", "description": "income or expense", "name": "type", "in": "query"},
                    {"type": "integer", "description": "Category ID", "name": "category_id", "in": "query"},
                    {"type": "string", "description": "First date, inclusive (YYYY-MM-DD)", "name": "from", "in": "query"},
                    {"type": "string", "description": "Last date, inclusive (YYYY-MM-DD)", "name": "to", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Transaction"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ValidationErrorResponse"}}
                }
            },
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["transactions"],
                "summary": "Record a transaction",
                "parameters": [
                    {"description": "Transaction", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.TransactionInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Transaction"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ValidationErrorResponse"}}
                }
            }
        },
        "/api/transactions/stats": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["transactions"],
                "summary": "Monthly and per-category totals",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Stats"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.MessageResponse"}}
                }
            }
        },
        "/api/transactions/{id}": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["transactions"],
                "summary": "Get a transaction",
                "parameters": [
                    {"type": "integer", "description": "Transaction ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Transaction"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.MessageResponse"}}
                }
            },
            "put": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["transactions"],
                "summary": "Overwrite an owned transaction",
                "parameters": [
                    {"type": "integer", "description": "Transaction ID", "name": "id", "in": "path", "required": true},
                    {"description": "Transaction", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.TransactionInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Transaction"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ValidationErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.MessageResponse"}}
                }
            },
            "delete": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["transactions"],
                "summary": "Delete an owned transaction",
                "parameters": [
                    {"type": "integer", "description": "Transaction ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.MessageResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.MessageResponse"}}
                }
            }
        }
    },
    "definitions": {
        "models.AuthResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string", "example": "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."},
                "user": {"$ref": "#/definitions/models.User"}
            }
        },
        "models.Category": {
            "type": "object",
            "properties": {
                "id": {"type": "integer", "example": 1},
                "name": {"type": "string", "example": "Salary"},
                "type": {"type": "string", "example": "income"},
                "user_id": {"type": "integer", "example": 1}
            }
        },
        "models.CategoryInput": {
            "type": "object",
            "properties": {
                "name": {"type": "string", "example": "Salary"},
                "type": {"type": "string", "example": "income"}
            }
        },
        "models.CategoryTotal": {
            "type": "object",
            "properties": {
                "name": {"type": "string", "example": "Food"},
                "total": {"type": "number", "example": 250.75},
                "type": {"type": "string", "example": "expense"}
            }
        },
        "models.FieldError": {
            "type": "object",
            "properties": {
                "field": {"type": "string", "example": "email"},
                "location": {"type": "string", "example": "body"},
                "message": {"type": "string", "example": "must be a valid email address"}
            }
        },
        "models.LoginInput": {
            "type": "object",
            "properties": {
                "email": {"type": "string", "example": "ada@example.com"},
                "password": {"type": "string", "example": "secret"}
            }
        },
        "models.MessageResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string", "example": "Category deleted"}
            }
        },
        "models.MonthlyTotal": {
            "type": "object",
            "properties": {
                "month": {"type": "string", "example": "2024-01"},
                "total_expenses": {"type": "number", "example": 250.75},
                "total_income": {"type": "number", "example": 1000}
            }
        },
        "models.RegisterInput": {
            "type": "object",
            "properties": {
                "email": {"type": "string", "example": "ada@example.com"},
                "name": {"type": "string", "example": "Ada"},
                "password": {"type": "string", "example": "secret"}
            }
        },
        "models.Stats": {
            "type": "object",
            "properties": {
                "byCategory": {"type": "array", "items": {"$ref": "#/definitions/models.CategoryTotal"}},
                "monthly": {"type": "array", "items": {"$ref": "#/definitions/models.MonthlyTotal"}}
            }
        },
        "models.StatusResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "OK"},
                "timestamp": {"type": "string"}
            }
        },
        "models.Transaction": {
            "type": "object",
            "properties": {
                "amount": {"type": "number", "example": 1000.5},
                "category_id": {"type": "integer"},
                "category_name": {"type": "string"},
                "category_type": {"type": "string"},
                "date": {"type": "string", "example": "2024-01-15"},
                "description": {"type": "string", "example": "pay"},
                "id": {"type": "integer"},
                "type": {"type": "string", "example": "income"},
                "user_id": {"type": "integer"}
            }
        },
        "models.TransactionInput": {
            "type": "object",
            "properties": {
                "amount": {"type": "number", "example": 1000},
                "category_id": {"type": "integer", "example": 1},
                "date": {"type": "string", "example": "2024-01-15"},
                "description": {"type": "string", "example": "pay"},
                "type": {"type": "string", "example": "income"}
            }
        },
        "models.User": {
            "type": "object",
            "properties": {
                "email": {"type": "string", "example": "ada@example.com"},
                "id": {"type": "integer", "example": 1},
                "name": {"type": "string", "example": "Ada"}
            }
        },
        "models.ValidationErrorResponse": {
            "type": "object",
            "properties": {
                "errors": {"type": "array", "items": {"$ref": "#/definitions/models.FieldError"}}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Finance Tracker API",
	Description:      "Personal income and expense tracking.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
