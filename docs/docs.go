// Package docs registers the OpenAPI description served at /swagger.
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
        "/auth/register": {
            "post": {
                "tags": ["auth"],
                "summary": "Create an account",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/auth.RegisterRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/response.StandardApiResponse"}}}
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Exchange credentials for a token pair",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/auth.LoginRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.StandardApiResponse"}}}
            }
        },
        "/events": {
            "get": {
                "tags": ["events"],
                "summary": "List events with active ticket totals",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.StandardApiResponse"}}}
            }
        },
        "/events/{id}": {
            "get": {
                "tags": ["events"],
                "summary": "Event detail with venue, categories and rating summary",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.StandardApiResponse"}}}
            }
        },
        "/events/{id}/tickets": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["tickets"],
                "summary": "Buy tickets for an event",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/tickets.TicketRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.StandardApiResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.StandardApiResponse"}}
                }
            }
        },
        "/events/{id}/ratings": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["ratings"],
                "summary": "Rate an event",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/response.StandardApiResponse"}}}
            }
        },
        "/refunds": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["refunds"],
                "summary": "Request a refund for a ticket",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/refunds.CreateRefundRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.StandardApiResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.StandardApiResponse"}}
                }
            }
        },
        "/organizer/refunds/{id}/approve": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["refunds"],
                "summary": "Approve a pending refund request",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.StandardApiResponse"}}}
            }
        },
        "/organizer/dashboard": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["analytics"],
                "summary": "Sales, ratings and pending refunds per event of the caller",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.StandardApiResponse"}}}
            }
        }
    },
    "definitions": {
        "auth.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "auth.RegisterRequest": {
            "type": "object",
            "required": ["first_name", "last_name", "username", "email", "password", "password_confirmation"],
            "properties": {
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "username": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"},
                "password_confirmation": {"type": "string"},
                "is_organizer": {"type": "boolean"}
            }
        },
        "tickets.TicketRequest": {
            "type": "object",
            "properties": {
                "quantity": {"type": "integer", "minimum": 1},
                "type": {"type": "string", "enum": ["GENERAL", "VIP"]}
            }
        },
        "refunds.CreateRefundRequest": {
            "type": "object",
            "required": ["ticket_code", "reason"],
            "properties": {
                "ticket_code": {"type": "string"},
                "reason": {"type": "string", "enum": ["NO_ATTENDANCE", "EVENT_CHANGED", "PURCHASE_ERROR"]},
                "details": {"type": "string"}
            }
        },
        "response.StandardApiResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "status_code": {"type": "integer"},
                "message": {"type": "string"},
                "data": {},
                "errors": {}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "EventHub API",
	Description:      "Events, tickets, ratings, comments, surveys and refunds.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
