// Package docs registers the swagger specification served at /docs.
// Regenerate with `swag init -g cmd/server/main.go` after changing handler
// annotations.
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
        "/user/signup": {
            "post": {
                "tags": ["Users"],
                "summary": "Register a new account",
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}
            }
        },
        "/user/login": {
            "post": {
                "tags": ["Users"],
                "summary": "Log in and receive a JWT",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/user/updateuser": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "tags": ["Users"],
                "summary": "Update own profile",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/user/deleteuser": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Users"],
                "summary": "Delete own account",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/user/getusers": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Users"],
                "summary": "List registered accounts",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/user/getusername": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Users"],
                "summary": "Fetch own username",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/chatbot/message": {
            "post": {
                "tags": ["Chatbot"],
                "summary": "Send a chat message",
                "parameters": [{"type": "string", "name": "session-id", "in": "header"}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/chatbot/getmessage/{id}": {
            "get": {
                "tags": ["Chatbot"],
                "summary": "Fetch one session thread",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/chatbot/getusermessage": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Chatbot"],
                "summary": "List own sessions (paginated)",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/feedback/feedback": {
            "post": {
                "tags": ["Feedback"],
                "summary": "Send a feedback message",
                "parameters": [{"type": "string", "name": "feedback-id", "in": "header"}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/feedback/feedback/{id}": {
            "get": {
                "tags": ["Feedback"],
                "summary": "Fetch one feedback thread",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/feedback/feedback/{id}/category": {
            "patch": {
                "tags": ["Feedback"],
                "summary": "Classify a feedback thread",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}
            }
        },
        "/feedback/Userfeedback": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Feedback"],
                "summary": "List own feedback threads",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/jobs/search": {
            "post": {
                "tags": ["Search"],
                "summary": "Search job postings",
                "responses": {"200": {"description": "OK"}, "500": {"description": "Internal Server Error"}}
            }
        },
        "/mentors/search": {
            "post": {
                "tags": ["Search"],
                "summary": "Search mentor profiles",
                "responses": {"200": {"description": "OK"}, "500": {"description": "Internal Server Error"}}
            }
        },
        "/events/getevents": {
            "post": {
                "tags": ["Search"],
                "summary": "Search upcoming events",
                "responses": {"200": {"description": "OK"}, "500": {"description": "Internal Server Error"}}
            }
        },
        "/voicechat/voice": {
            "post": {
                "tags": ["Voice"],
                "summary": "Get a spoken reply",
                "responses": {"200": {"description": "OK"}, "500": {"description": "Internal Server Error"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Career Assistance API",
	Description:      "Chatbot sessions, feedback threads, voice replies, and external job/mentor/event search for the career-assistance platform.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
