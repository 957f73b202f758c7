package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "ECS Booking API",
        "description": "Appointment availability and booking service for Excel Community School",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Availability", "description": "Public slot availability"},
        {"name": "Bookings", "description": "Public appointment booking"},
        {"name": "Contact", "description": "Contact form"},
        {"name": "Auth", "description": "Admin authentication"},
        {"name": "Admin Availability", "description": "Calendar management"},
        {"name": "Admin Bookings", "description": "Booking management"}
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/availability": {
            "get": {
                "tags": ["Availability"],
                "summary": "List bookable time slots for a date",
                "parameters": [
                    {"name": "date", "in": "query", "type": "string", "required": true, "description": "YYYY-MM-DD"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid or past date", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Store unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/bookings": {
            "post": {
                "tags": ["Bookings"],
                "summary": "Book an appointment",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateBookingRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Slot conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "429": {"description": "Rate limited", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Store unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/bookings/{reference}": {
            "get": {
                "tags": ["Bookings"],
                "summary": "Look up a booking by reference number",
                "parameters": [
                    {"name": "reference", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/contact": {
            "post": {
                "tags": ["Contact"],
                "summary": "Submit a contact form message",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ContactRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Validation failed"},
                    "429": {"description": "Rate limited"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Admin login",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/admin/availability": {
            "get": {
                "tags": ["Admin Availability"],
                "summary": "List availability overrides in a date range",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "start_date", "in": "query", "type": "string", "required": true},
                    {"name": "end_date", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "put": {
                "tags": ["Admin Availability"],
                "summary": "Set availability for one date and time slot",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpsertOverrideRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/admin/availability/bulk": {
            "post": {
                "tags": ["Admin Availability"],
                "summary": "Apply one availability decision across many dates and slots",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BulkOverrideRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/admin/availability/{date}": {
            "delete": {
                "tags": ["Admin Availability"],
                "summary": "Remove all overrides for a date",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "date", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/admin/availability/patterns": {
            "get": {
                "tags": ["Admin Availability"],
                "summary": "List weekly recurring patterns",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/admin/availability/patterns/{day}": {
            "put": {
                "tags": ["Admin Availability"],
                "summary": "Replace the weekly template for one weekday",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "day", "in": "path", "type": "integer", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpsertPatternRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/admin/bookings": {
            "get": {
                "tags": ["Admin Bookings"],
                "summary": "List bookings with filters",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "date", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/bookings/{id}": {
            "patch": {
                "tags": ["Admin Bookings"],
                "summary": "Update booking status, notes or schedule",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateBookingRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found"},
                    "409": {"description": "Slot conflict"}
                }
            }
        },
        "/admin/bookings/export": {
            "get": {
                "tags": ["Admin Bookings"],
                "summary": "Export one day's bookings as CSV or PDF",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "date", "in": "query", "type": "string", "required": true},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File"}
                }
            }
        }
    },
    "definitions": {
        "CreateBookingRequest": {
            "type": "object",
            "required": ["appointment_type", "date", "time_slot", "parent_name", "parent_email", "parent_phone"],
            "properties": {
                "appointment_type": {"type": "string", "enum": ["school_tour", "admissions_consultation", "general_inquiry", "other"]},
                "date": {"type": "string", "example": "2026-09-02"},
                "time_slot": {"type": "string", "example": "09:30"},
                "parent_name": {"type": "string"},
                "parent_email": {"type": "string"},
                "parent_phone": {"type": "string"},
                "child_name": {"type": "string"},
                "child_age_grade": {"type": "string"},
                "additional_notes": {"type": "string"}
            }
        },
        "UpdateBookingRequest": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["pending", "confirmed", "cancelled"]},
                "admin_notes": {"type": "string"},
                "date": {"type": "string"},
                "time_slot": {"type": "string"}
            }
        },
        "UpsertOverrideRequest": {
            "type": "object",
            "required": ["date", "time_slot"],
            "properties": {
                "date": {"type": "string"},
                "time_slot": {"type": "string"},
                "is_available": {"type": "boolean"},
                "is_blocked": {"type": "boolean"},
                "admin_notes": {"type": "string"}
            }
        },
        "BulkOverrideRequest": {
            "type": "object",
            "required": ["dates", "time_slots"],
            "properties": {
                "dates": {"type": "array", "items": {"type": "string"}},
                "time_slots": {"type": "array", "items": {"type": "string"}},
                "is_available": {"type": "boolean"},
                "is_blocked": {"type": "boolean"}
            }
        },
        "UpsertPatternRequest": {
            "type": "object",
            "properties": {
                "slots": {"type": "array", "items": {"type": "string"}}
            }
        },
        "ContactRequest": {
            "type": "object",
            "required": ["name", "phone", "email", "subject", "message"],
            "properties": {
                "name": {"type": "string"},
                "phone": {"type": "string"},
                "email": {"type": "string"},
                "subject": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
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
                "pagination": {"$ref": "#/definitions/Pagination"}
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
