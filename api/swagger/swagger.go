package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Campus Complaints API",
        "description": "Student complaint submission and administrator resolution",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Authentication", "description": "Login and student registration"},
        {"name": "Complaints", "description": "Complaint lifecycle"}
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
                    "200": {"description": "Ready"},
                    "503": {"description": "A dependency is unreachable"}
                }
            }
        },
        "/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Log in as a student or administrator",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Token issued", "schema": {"$ref": "#/definitions/StatusResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/StatusResponse"}}
                }
            }
        },
        "/register": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register a student account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}
                ],
                "responses": {
                    "200": {"description": "Registered", "schema": {"$ref": "#/definitions/StatusResponse"}},
                    "400": {"description": "Missing fields or duplicate id", "schema": {"$ref": "#/definitions/StatusResponse"}}
                }
            }
        },
        "/submit_complaint": {
            "post": {
                "tags": ["Complaints"],
                "summary": "Submit a complaint as the logged-in student",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitComplaintRequest"}}
                ],
                "responses": {
                    "200": {"description": "Stored", "schema": {"$ref": "#/definitions/StatusResponse"}},
                    "401": {"description": "Token missing, expired or invalid", "schema": {"$ref": "#/definitions/StatusResponse"}},
                    "403": {"description": "Not a student", "schema": {"$ref": "#/definitions/StatusResponse"}}
                }
            }
        },
        "/get_complaints": {
            "get": {
                "tags": ["Complaints"],
                "summary": "List every complaint ordered by id",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Complaint"}}},
                    "401": {"description": "Token missing, expired or invalid", "schema": {"$ref": "#/definitions/StatusResponse"}}
                }
            }
        },
        "/resolve_complaint": {
            "post": {
                "tags": ["Complaints"],
                "summary": "Mark a complaint resolved",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ResolveComplaintRequest"}}
                ],
                "responses": {
                    "200": {"description": "Resolved, or already resolved", "schema": {"$ref": "#/definitions/StatusResponse"}},
                    "401": {"description": "Token missing, expired or invalid", "schema": {"$ref": "#/definitions/StatusResponse"}},
                    "403": {"description": "Not an administrator", "schema": {"$ref": "#/definitions/StatusResponse"}}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["role", "id", "password"],
            "properties": {
                "role": {"type": "string", "enum": ["student", "admin"]},
                "id": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "RegisterRequest": {
            "type": "object",
            "required": ["name", "id", "password"],
            "properties": {
                "name": {"type": "string"},
                "id": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "SubmitComplaintRequest": {
            "type": "object",
            "required": ["studentName", "category", "description"],
            "properties": {
                "studentName": {"type": "string"},
                "category": {"type": "string"},
                "description": {"type": "string"}
            }
        },
        "ResolveComplaintRequest": {
            "type": "object",
            "required": ["id"],
            "properties": {
                "id": {"type": "integer"}
            }
        },
        "Complaint": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "studentName": {"type": "string"},
                "studentId": {"type": "string"},
                "category": {"type": "string"},
                "description": {"type": "string"},
                "status": {"type": "string", "enum": ["pending", "resolved"]},
                "submittedAt": {"type": "string", "example": "17/10/2026"},
                "resolvedAt": {"type": "string", "x-nullable": true}
            }
        },
        "StatusResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["success", "error", "fail"]},
                "message": {"type": "string"},
                "token": {"type": "string"}
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
