package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Bursary Portal API",
        "description": "Bursary listings, applications, documents and messaging",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Authentication", "description": "Account registration and login"},
        {"name": "Bursaries", "description": "Bursary listing management"},
        {"name": "Applications", "description": "Application workflow and status history"},
        {"name": "Documents", "description": "Supporting document uploads"},
        {"name": "Messages", "description": "Student and admin messaging"}
    ],
    "paths": {
        "/register/student": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register student account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterStudentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/register/admin": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register admin account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterAdminRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/bursaries/available": {
            "get": {
                "tags": ["Bursaries"],
                "summary": "List open bursaries",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/bursaries": {
            "get": {
                "tags": ["Bursaries"],
                "summary": "List all bursaries",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Bursaries"],
                "summary": "Create bursary",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BursaryRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/bursaries/{id}": {
            "get": {
                "tags": ["Bursaries"],
                "summary": "Get bursary",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Bursaries"],
                "summary": "Update bursary",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BursaryRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Bursaries"],
                "summary": "Delete bursary",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/applications": {
            "post": {
                "tags": ["Applications"],
                "summary": "Submit bursary application",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ApplicationPairRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "get": {
                "tags": ["Applications"],
                "summary": "List a student's applied bursaries",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "student_id", "in": "query", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/applications/withdraw": {
            "post": {
                "tags": ["Applications"],
                "summary": "Withdraw bursary application",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ApplicationPairRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/applications/status/update": {
            "post": {
                "tags": ["Applications"],
                "summary": "Update application status",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateStatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "500": {"description": "Status updated but email failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/applications/admin/all": {
            "get": {
                "tags": ["Applications"],
                "summary": "List all applications with status history",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/applications/admin/export": {
            "get": {
                "tags": ["Applications"],
                "summary": "Export application register",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/documents/upload": {
            "post": {
                "tags": ["Documents"],
                "summary": "Upload a document",
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "file", "in": "formData", "required": true, "type": "file"},
                    {"name": "application_id", "in": "formData", "required": true, "type": "integer"},
                    {"name": "student_id", "in": "formData", "required": true, "type": "integer"},
                    {"name": "file_category", "in": "formData", "type": "string"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/messages/send": {
            "post": {
                "tags": ["Messages"],
                "summary": "Send a chat message",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SendMessageRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/messages/conversation/{id}": {
            "get": {
                "tags": ["Messages"],
                "summary": "Get conversation history",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/messages/mark-read": {
            "post": {
                "tags": ["Messages"],
                "summary": "Mark conversation messages read",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/MarkReadRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/conversations/initiate": {
            "post": {
                "tags": ["Conversations"],
                "summary": "Initiate a conversation",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ConversationPairRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/conversations/student/{id}": {
            "get": {
                "tags": ["Conversations"],
                "summary": "List a student's conversations",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "RegisterStudentRequest": {
            "type": "object",
            "required": ["full_name", "email", "password"],
            "properties": {
                "full_name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"},
                "phone": {"type": "string"},
                "institution": {"type": "string"},
                "field_of_study": {"type": "string"},
                "year_of_study": {"type": "string"}
            }
        },
        "RegisterAdminRequest": {
            "type": "object",
            "required": ["full_name", "email", "password"],
            "properties": {
                "full_name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"},
                "role": {"type": "string"},
                "department": {"type": "string"},
                "position_title": {"type": "string"}
            }
        },
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password", "role"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"},
                "role": {"type": "string", "enum": ["student", "admin"]}
            }
        },
        "BursaryRequest": {
            "type": "object",
            "required": ["title", "description", "closing_date"],
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "eligibility": {"type": "string"},
                "field_of_study": {"type": "string"},
                "institution": {"type": "string"},
                "sponsor": {"type": "string"},
                "amount": {"type": "number"},
                "closing_date": {"type": "string", "format": "date"},
                "application_url": {"type": "string"},
                "contact_email": {"type": "string"},
                "tags": {"type": "string"}
            }
        },
        "ApplicationPairRequest": {
            "type": "object",
            "required": ["student_id", "bursary_id"],
            "properties": {
                "student_id": {"type": "integer"},
                "bursary_id": {"type": "integer"}
            }
        },
        "UpdateStatusRequest": {
            "type": "object",
            "required": ["application_id", "status", "updated_by", "updated_by_role"],
            "properties": {
                "application_id": {"type": "integer"},
                "status": {"type": "string"},
                "remarks": {"type": "string"},
                "updated_by": {"type": "integer"},
                "updated_by_role": {"type": "string", "enum": ["student", "admin"]},
                "is_visible_to_student": {"type": "boolean"},
                "action_type": {"type": "string"},
                "attachment_url": {"type": "string"}
            }
        },
        "SendMessageRequest": {
            "type": "object",
            "required": ["conversation_id", "sender_id", "receiver_id", "sender_role", "message"],
            "properties": {
                "conversation_id": {"type": "integer"},
                "sender_id": {"type": "integer"},
                "receiver_id": {"type": "integer"},
                "sender_role": {"type": "string", "enum": ["student", "admin"]},
                "message": {"type": "string"},
                "message_type": {"type": "string"},
                "attachment_url": {"type": "string"}
            }
        },
        "ConversationPairRequest": {
            "type": "object",
            "required": ["student_id", "admin_id"],
            "properties": {
                "student_id": {"type": "integer"},
                "admin_id": {"type": "integer"}
            }
        },
        "MarkReadRequest": {
            "type": "object",
            "required": ["conversation_id"],
            "properties": {
                "conversation_id": {"type": "integer"}
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
