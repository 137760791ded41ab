// Package docs registers the generated Swagger specification.
// Regenerate with: swag init -g cmd/api/main.go
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
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health Check",
                "responses": {
                    "200": {
                        "description": "API is healthy",
                        "schema": {"type": "object", "additionalProperties": true}
                    }
                }
            }
        },
        "/internal/webhooks/azure-devops": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Webhooks"],
                "summary": "Receive a service-hook event",
                "responses": {
                    "200": {"description": "Accepted or ignored"},
                    "400": {"description": "Bad Request"},
                    "401": {"description": "Unauthorized"},
                    "403": {"description": "Forbidden"},
                    "429": {"description": "Too Many Requests"}
                }
            }
        },
        "/api/v1/users": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Register a user",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"}
                }
            }
        },
        "/api/v1/users/{id}/repositories": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Repositories"],
                "summary": "List connected repositories",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Repositories"],
                "summary": "Connect a repository",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "402": {"description": "Plan limit reached"},
                    "404": {"description": "Not Found"},
                    "409": {"description": "Already connected"}
                }
            }
        },
        "/api/v1/users/{id}/repositories/{repo_id}": {
            "delete": {
                "produces": ["application/json"],
                "tags": ["Repositories"],
                "summary": "Disconnect a repository",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "repo_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/api/v1/users/{id}/settings": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Settings"],
                "summary": "Get user settings",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Settings"],
                "summary": "Update user settings",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1",
	Host:             "localhost:8080",
	BasePath:         "",
	Schemes:          []string{"http"},
	Title:            "PR Root Cause Analysis API",
	Description:      "Automated root-cause analysis for bug-fix pull requests: webhook ingestion, AI report generation and multi-channel distribution.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
