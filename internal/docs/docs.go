// Package docs registers the OpenAPI description served under /swagger.
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
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [{"BearerAuth": []}],
    "paths": {
        "/health": {
            "get": {"summary": "Database reachability", "security": [], "responses": {"200": {"description": "ok"}, "503": {"description": "unavailable"}}}
        },
        "/files/upload": {
            "post": {
                "summary": "Upload study material",
                "consumes": ["multipart/form-data"],
                "parameters": [{"name": "files", "in": "formData", "type": "file", "required": true}],
                "responses": {"200": {"description": "files saved, failed entries listed"}, "400": {"description": "no files"}, "500": {"description": "no file could be saved"}}
            }
        },
        "/files/recent": {
            "get": {"summary": "Recent uploads", "responses": {"200": {"description": "ok"}}}
        },
        "/files/{id}": {
            "delete": {
                "summary": "Delete an upload",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"200": {"description": "deleted"}, "404": {"description": "not found"}}
            }
        },
        "/quizzes/generate": {
            "post": {
                "summary": "Start quiz generation",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateRequest"}}],
                "responses": {"202": {"description": "generating"}, "400": {"description": "invalid settings"}, "404": {"description": "file not found"}, "503": {"description": "queue full"}}
            }
        },
        "/quizzes/": {
            "get": {"summary": "List quizzes", "responses": {"200": {"description": "ok"}}}
        },
        "/quizzes/{id}": {
            "get": {
                "summary": "Get a quiz with its questions",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"200": {"description": "ok"}, "404": {"description": "not found"}}
            },
            "delete": {
                "summary": "Delete a quiz",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"200": {"description": "deleted"}, "404": {"description": "not found"}}
            }
        },
        "/quizzes/{id}/status": {
            "get": {
                "summary": "Poll generation status",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"200": {"description": "generating, completed or failed"}, "404": {"description": "not found"}}
            }
        },
        "/quizzes/{id}/submit": {
            "post": {
                "summary": "Submit and score an attempt",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitRequest"}}
                ],
                "responses": {"201": {"description": "scored"}, "400": {"description": "invalid answers"}, "404": {"description": "quiz not found"}}
            }
        },
        "/attempts/": {
            "get": {"summary": "Recent attempts", "responses": {"200": {"description": "ok"}}}
        },
        "/attempts/{id}": {
            "get": {
                "summary": "Attempt detail",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"200": {"description": "ok"}, "404": {"description": "not found"}}
            }
        }
    },
    "definitions": {
        "GenerateRequest": {
            "type": "object",
            "required": ["fileIds", "quizType", "numQuestions", "difficulty"],
            "properties": {
                "fileIds": {"type": "array", "items": {"type": "string"}},
                "quizType": {"type": "string", "enum": ["multiple-choice", "fill-blank"]},
                "numQuestions": {"type": "integer"},
                "difficulty": {"type": "string", "enum": ["easy", "medium", "hard"]},
                "timeLimit": {"description": "minutes, or \"none\""}
            }
        },
        "SubmitRequest": {
            "type": "object",
            "required": ["answers"],
            "properties": {
                "answers": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "question_id": {"type": "string"},
                            "user_answer": {"type": "string"},
                            "time_spent": {"type": "integer"}
                        }
                    }
                },
                "startedAt": {"type": "string", "format": "date-time"},
                "completedAt": {"type": "string", "format": "date-time"}
            }
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "StudyQuiz API",
	Description:      "Upload study material, generate quizzes with AI and score attempts.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
