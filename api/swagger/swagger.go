package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Advisor Assessment Portal",
        "description": "Students rate their academic advisors each round; staff read the averages.",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http",
        "https"
    ],
    "tags": [
        {"name": "Authentication", "description": "Session cookie login and logout"},
        {"name": "Calculations", "description": "Average recomputation per round"},
        {"name": "Evaluations", "description": "Student answers"},
        {"name": "Rounds", "description": "Round and question administration"},
        {"name": "System", "description": "Process metrics"}
    ],
    "securityDefinitions": {
        "SessionCookie": {"type": "apiKey", "in": "header", "name": "Cookie", "description": "session_token=<token>"}
    },
    "paths": {
        "/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Session started", "schema": {"$ref": "#/definitions/LoginResponse"}},
                    "400": {"description": "Missing credentials", "schema": {"$ref": "#/definitions/LoginResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/LoginResponse"}}
                }
            }
        },
        "/logout": {
            "post": {
                "tags": ["Authentication"],
                "summary": "End session",
                "responses": {"204": {"description": "Session cleared"}}
            }
        },
        "/calculate-averages": {
            "post": {
                "tags": ["Calculations"],
                "summary": "Recompute averages",
                "description": "Runs the teacher, major and faculty average procedures of a round concurrently. Admin only.",
                "security": [{"SessionCookie": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/CalculationRequest"}}
                ],
                "responses": {
                    "200": {"description": "Started", "schema": {"$ref": "#/definitions/CalculationResult"}},
                    "400": {"description": "Missing round", "schema": {"$ref": "#/definitions/CalculationResult"}},
                    "401": {"description": "No session", "schema": {"$ref": "#/definitions/CalculationResult"}},
                    "403": {"description": "Not an admin", "schema": {"$ref": "#/definitions/CalculationResult"}},
                    "404": {"description": "No answers in round", "schema": {"$ref": "#/definitions/CalculationResult"}},
                    "500": {"description": "Procedure failure", "schema": {"$ref": "#/definitions/CalculationResult"}}
                }
            },
            "get": {
                "tags": ["Calculations"],
                "summary": "Recompute averages (query form)",
                "security": [{"SessionCookie": []}],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "query", "name": "around_id", "type": "integer", "required": true},
                    {"in": "query", "name": "calculated_by", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Started", "schema": {"$ref": "#/definitions/CalculationResult"}}
                }
            }
        },
        "/calculate-averages/{roundId}/status": {
            "get": {
                "tags": ["Calculations"],
                "summary": "Last calculation outcome",
                "security": [{"SessionCookie": []}],
                "parameters": [
                    {"in": "path", "name": "roundId", "type": "integer", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Never calculated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/evaluations": {
            "post": {
                "tags": ["Evaluations"],
                "summary": "Submit advisor evaluation",
                "security": [{"SessionCookie": []}],
                "consumes": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/EvaluationRequest"}}
                ],
                "responses": {
                    "200": {"description": "Saved", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid answers", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Not the student's advisor", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Round closed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/rounds": {
            "get": {
                "tags": ["Rounds"],
                "summary": "List rounds",
                "security": [{"SessionCookie": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Rounds"],
                "summary": "Create round",
                "security": [{"SessionCookie": []}],
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/RoundRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Round exists", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/rounds/{roundId}": {
            "put": {
                "tags": ["Rounds"],
                "summary": "Update round window",
                "security": [{"SessionCookie": []}],
                "parameters": [
                    {"in": "path", "name": "roundId", "type": "integer", "required": true},
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/RoundRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "delete": {
                "tags": ["Rounds"],
                "summary": "Delete round",
                "security": [{"SessionCookie": []}],
                "parameters": [
                    {"in": "path", "name": "roundId", "type": "integer", "required": true}
                ],
                "responses": {"204": {"description": "Deleted"}}
            }
        },
        "/rounds/{roundId}/questions": {
            "get": {
                "tags": ["Rounds"],
                "summary": "List questions of a round",
                "security": [{"SessionCookie": []}],
                "parameters": [
                    {"in": "path", "name": "roundId", "type": "integer", "required": true}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Rounds"],
                "summary": "Add question to a round",
                "security": [{"SessionCookie": []}],
                "parameters": [
                    {"in": "path", "name": "roundId", "type": "integer", "required": true},
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/QuestionRequest"}}
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/questions/{id}": {
            "delete": {
                "tags": ["Rounds"],
                "summary": "Delete question",
                "security": [{"SessionCookie": []}],
                "parameters": [
                    {"in": "path", "name": "id", "type": "integer", "required": true}
                ],
                "responses": {"204": {"description": "Deleted"}}
            }
        },
        "/system/metrics": {
            "get": {
                "tags": ["System"],
                "summary": "Process metrics snapshot",
                "security": [{"SessionCookie": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "LoginResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["success", "error"]},
                "role": {"type": "string", "enum": ["admin", "teacher", "student", "executive"]},
                "message": {"type": "string"}
            }
        },
        "CalculationRequest": {
            "type": "object",
            "required": ["around_id"],
            "properties": {
                "around_id": {"type": "string", "example": "202501", "description": "numeric string or number"},
                "calculated_by": {"type": "string", "maxLength": 100}
            }
        },
        "CalculationResult": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "EvaluationAnswer": {
            "type": "object",
            "properties": {
                "detail_id": {"type": "integer"},
                "score": {"type": "integer", "minimum": 1, "maximum": 5},
                "text": {"type": "string"}
            }
        },
        "EvaluationRequest": {
            "type": "object",
            "properties": {
                "around_id": {"type": "integer"},
                "teacher_id": {"type": "integer"},
                "answers": {"type": "array", "items": {"$ref": "#/definitions/EvaluationAnswer"}}
            }
        },
        "RoundRequest": {
            "type": "object",
            "properties": {
                "around_id": {"type": "integer", "example": 202501},
                "start_date": {"type": "string", "format": "date-time"},
                "end_date": {"type": "string", "format": "date-time"}
            }
        },
        "QuestionRequest": {
            "type": "object",
            "properties": {
                "question": {"type": "string"},
                "question_type": {"type": "string", "enum": ["rating", "text"]},
                "start_date": {"type": "string", "format": "date-time"},
                "end_date": {"type": "string", "format": "date-time"}
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
