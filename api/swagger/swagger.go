package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SGE Console Gateway",
        "description": "Session-holding gateway between the admin console UI and the school-management platform API",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Console session lifecycle"},
        {"name": "Students", "description": "Student roster, grades and imports"},
        {"name": "Staff", "description": "Staff roster"},
        {"name": "Classes", "description": "Class details, grade entry and transitions"},
        {"name": "Finances", "description": "Balances, fundings and expenses"},
        {"name": "Reference", "description": "Dashboard, consultas and insights"},
        {"name": "Config", "description": "School structure records"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate against the platform and open a workspace",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/LoginResponse"}},
                    "401": {"description": "Rejected credentials"}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Auth"],
                "summary": "Close the workspace",
                "parameters": [
                    {"name": "X-Console-Session", "in": "header", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/screens/students": {
            "get": {
                "tags": ["Students"],
                "summary": "Student roster with local search, sort and pagination",
                "parameters": [
                    {"name": "X-Console-Session", "in": "header", "required": true, "type": "string"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/screens/students/{id}/grades": {
            "get": {
                "tags": ["Students"],
                "summary": "Grade history for one student",
                "parameters": [
                    {"name": "X-Console-Session", "in": "header", "required": true, "type": "string"},
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "ano_letivo", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/screens/students/drafts/{draft}": {
            "post": {
                "tags": ["Students"],
                "summary": "Open a create, profile or grade draft",
                "parameters": [
                    {"name": "X-Console-Session", "in": "header", "required": true, "type": "string"},
                    {"name": "draft", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Students"],
                "summary": "Patch fields of the open draft",
                "parameters": [
                    {"name": "X-Console-Session", "in": "header", "required": true, "type": "string"},
                    {"name": "draft", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Students"],
                "summary": "Discard the open draft",
                "parameters": [
                    {"name": "X-Console-Session", "in": "header", "required": true, "type": "string"},
                    {"name": "draft", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/screens/students/drafts/{draft}/submit": {
            "post": {
                "tags": ["Students"],
                "summary": "Validate and submit the open draft",
                "parameters": [
                    {"name": "X-Console-Session", "in": "header", "required": true, "type": "string"},
                    {"name": "draft", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/screens/classes/{id}/details": {
            "get": {
                "tags": ["Classes"],
                "summary": "Aggregate detail for one class",
                "parameters": [
                    {"name": "X-Console-Session", "in": "header", "required": true, "type": "string"},
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/screens/classes/export": {
            "post": {
                "tags": ["Classes"],
                "summary": "Stage the platform's class spreadsheet and return a signed download link",
                "parameters": [
                    {"name": "X-Console-Session", "in": "header", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/screens/finances": {
            "get": {
                "tags": ["Finances"],
                "summary": "Combined balance, fundings and expenses payload",
                "parameters": [
                    {"name": "X-Console-Session", "in": "header", "required": true, "type": "string"},
                    {"name": "ano", "in": "query", "type": "integer"},
                    {"name": "mes", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/screens/dashboard": {
            "get": {
                "tags": ["Reference"],
                "summary": "Landing-page summary",
                "parameters": [
                    {"name": "X-Console-Session", "in": "header", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/screens/config/{kind}": {
            "get": {
                "tags": ["Config"],
                "summary": "School-structure records for one tab",
                "parameters": [
                    {"name": "X-Console-Session", "in": "header", "required": true, "type": "string"},
                    {"name": "kind", "in": "path", "required": true, "type": "string"},
                    {"name": "search", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/downloads/{token}": {
            "get": {
                "summary": "Stream a staged export referenced by a signed token",
                "parameters": [
                    {"name": "token", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File stream"},
                    "403": {"description": "Invalid or expired link"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["username", "password"]
        },
        "LoginResponse": {
            "type": "object",
            "properties": {
                "session_id": {"type": "string"},
                "token_expiry": {"type": "string"}
            }
        },
        "ListState": {
            "type": "object",
            "properties": {
                "loaded": {"type": "boolean"},
                "loading": {"type": "boolean"},
                "error": {"type": "string"}
            }
        },
        "DraftState": {
            "type": "object",
            "properties": {
                "state": {"type": "string"},
                "mode": {"type": "string"},
                "draft": {"type": "object"},
                "error": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
