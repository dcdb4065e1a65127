package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Academic Performance API",
        "description": "Student grade and attendance analytics",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "in": "header",
            "name": "Authorization"
        }
    },
    "tags": [
        {
            "name": "Authentication"
        },
        {
            "name": "Analytics",
            "description": "Performance, attendance and student reports"
        },
        {
            "name": "Students"
        },
        {
            "name": "Grades"
        },
        {
            "name": "Attendance"
        }
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": [
                    "Authentication"
                ],
                "summary": "Authenticate user",
                "parameters": [
                    {
                        "in": "body",
                        "name": "payload",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/LoginRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": [
                    "Authentication"
                ],
                "summary": "Refresh access token",
                "parameters": [
                    {
                        "in": "body",
                        "name": "payload",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/RefreshTokenRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": [
                    "Authentication"
                ],
                "summary": "Logout current session",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "401": {
                        "description": "Unauthorized"
                    }
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": [
                    "Authentication"
                ],
                "summary": "Get current user",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/analytics/performance": {
            "get": {
                "tags": [
                    "Analytics"
                ],
                "summary": "Performance metrics",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "in": "query",
                        "name": "studentId",
                        "type": "string",
                        "required": false,
                        "description": "Student profile id (administrators only)"
                    },
                    {
                        "in": "query",
                        "name": "courseId",
                        "type": "string",
                        "required": false,
                        "description": "Course filter"
                    },
                    {
                        "in": "query",
                        "name": "semester",
                        "type": "string",
                        "required": false,
                        "description": "Semester filter"
                    },
                    {
                        "in": "query",
                        "name": "academicYear",
                        "type": "string",
                        "required": false,
                        "description": "Academic year filter"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/analytics/attendance": {
            "get": {
                "tags": [
                    "Analytics"
                ],
                "summary": "Attendance statistics",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "in": "query",
                        "name": "studentId",
                        "type": "string",
                        "required": false,
                        "description": "Student profile id (administrators only)"
                    },
                    {
                        "in": "query",
                        "name": "courseId",
                        "type": "string",
                        "required": false,
                        "description": "Course filter"
                    },
                    {
                        "in": "query",
                        "name": "semester",
                        "type": "string",
                        "required": false,
                        "description": "Semester filter"
                    },
                    {
                        "in": "query",
                        "name": "academicYear",
                        "type": "string",
                        "required": false,
                        "description": "Academic year filter"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/analytics/student/{id}": {
            "get": {
                "tags": [
                    "Analytics"
                ],
                "summary": "Student report",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "in": "path",
                        "name": "id",
                        "type": "string",
                        "required": true,
                        "description": "Student ID or me"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/analytics/student/{id}/export": {
            "get": {
                "tags": [
                    "Analytics"
                ],
                "summary": "Download student report",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "in": "path",
                        "name": "id",
                        "type": "string",
                        "required": true,
                        "description": "Student ID or me"
                    },
                    {
                        "in": "query",
                        "name": "format",
                        "type": "string",
                        "required": false,
                        "description": "csv or pdf"
                    }
                ],
                "produces": [
                    "text/csv",
                    "application/pdf"
                ],
                "responses": {
                    "200": {
                        "description": "File"
                    },
                    "400": {
                        "description": "Bad request"
                    },
                    "404": {
                        "description": "Not found"
                    }
                }
            }
        },
        "/students": {
            "get": {
                "tags": [
                    "Students"
                ],
                "summary": "List students",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "in": "query",
                        "name": "search",
                        "type": "string",
                        "required": false,
                        "description": "Search by name, number or email"
                    },
                    {
                        "in": "query",
                        "name": "program",
                        "type": "string",
                        "required": false,
                        "description": "Program filter"
                    },
                    {
                        "in": "query",
                        "name": "active",
                        "type": "boolean",
                        "required": false,
                        "description": "Active filter"
                    },
                    {
                        "in": "query",
                        "name": "page",
                        "type": "integer",
                        "required": false,
                        "description": "Page"
                    },
                    {
                        "in": "query",
                        "name": "limit",
                        "type": "integer",
                        "required": false,
                        "description": "Page size"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            },
            "post": {
                "tags": [
                    "Students"
                ],
                "summary": "Create student",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "in": "body",
                        "name": "payload",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CreateStudentRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/students/{id}": {
            "get": {
                "tags": [
                    "Students"
                ],
                "summary": "Get student detail",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "in": "path",
                        "name": "id",
                        "type": "string",
                        "required": true,
                        "description": "Student ID"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/grades": {
            "get": {
                "tags": [
                    "Grades"
                ],
                "summary": "List grade records",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "in": "query",
                        "name": "studentId",
                        "type": "string",
                        "required": false,
                        "description": "Student profile id (administrators only)"
                    },
                    {
                        "in": "query",
                        "name": "courseId",
                        "type": "string",
                        "required": false,
                        "description": "Course filter"
                    },
                    {
                        "in": "query",
                        "name": "semester",
                        "type": "string",
                        "required": false,
                        "description": "Semester filter"
                    },
                    {
                        "in": "query",
                        "name": "academicYear",
                        "type": "string",
                        "required": false,
                        "description": "Academic year filter"
                    },
                    {
                        "in": "query",
                        "name": "page",
                        "type": "integer",
                        "required": false,
                        "description": "Page"
                    },
                    {
                        "in": "query",
                        "name": "limit",
                        "type": "integer",
                        "required": false,
                        "description": "Page size"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            },
            "post": {
                "tags": [
                    "Grades"
                ],
                "summary": "Record grade",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "in": "body",
                        "name": "payload",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CreateGradeRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/grades/{id}": {
            "delete": {
                "tags": [
                    "Grades"
                ],
                "summary": "Delete grade record",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "in": "path",
                        "name": "id",
                        "type": "string",
                        "required": true,
                        "description": "Grade ID"
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "404": {
                        "description": "Not found"
                    }
                }
            }
        },
        "/attendance": {
            "get": {
                "tags": [
                    "Attendance"
                ],
                "summary": "List attendance records",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "in": "query",
                        "name": "studentId",
                        "type": "string",
                        "required": false,
                        "description": "Student profile id (administrators only)"
                    },
                    {
                        "in": "query",
                        "name": "courseId",
                        "type": "string",
                        "required": false,
                        "description": "Course filter"
                    },
                    {
                        "in": "query",
                        "name": "status",
                        "type": "string",
                        "required": false,
                        "description": "present, absent, late or excused"
                    },
                    {
                        "in": "query",
                        "name": "dateFrom",
                        "type": "string",
                        "required": false,
                        "description": "YYYY-MM-DD"
                    },
                    {
                        "in": "query",
                        "name": "dateTo",
                        "type": "string",
                        "required": false,
                        "description": "YYYY-MM-DD"
                    },
                    {
                        "in": "query",
                        "name": "page",
                        "type": "integer",
                        "required": false,
                        "description": "Page"
                    },
                    {
                        "in": "query",
                        "name": "limit",
                        "type": "integer",
                        "required": false,
                        "description": "Page size"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            },
            "post": {
                "tags": [
                    "Attendance"
                ],
                "summary": "Record attendance",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "in": "body",
                        "name": "payload",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CreateAttendanceRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/attendance/{id}": {
            "delete": {
                "tags": [
                    "Attendance"
                ],
                "summary": "Delete attendance record",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "in": "path",
                        "name": "id",
                        "type": "string",
                        "required": true,
                        "description": "Attendance ID"
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "404": {
                        "description": "Not found"
                    }
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {
                    "type": "string"
                },
                "password": {
                    "type": "string"
                }
            }
        },
        "RefreshTokenRequest": {
            "type": "object",
            "properties": {
                "refreshToken": {
                    "type": "string"
                }
            }
        },
        "CreateStudentRequest": {
            "type": "object",
            "properties": {
                "userId": {
                    "type": "string"
                },
                "studentNumber": {
                    "type": "string"
                },
                "fullName": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "program": {
                    "type": "string"
                },
                "enrollmentYear": {
                    "type": "integer"
                }
            }
        },
        "CreateGradeRequest": {
            "type": "object",
            "properties": {
                "studentId": {
                    "type": "string"
                },
                "courseId": {
                    "type": "string"
                },
                "courseName": {
                    "type": "string"
                },
                "semester": {
                    "type": "string"
                },
                "academicYear": {
                    "type": "string"
                },
                "numericGrade": {
                    "type": "number"
                },
                "letterGrade": {
                    "type": "string"
                },
                "creditHours": {
                    "type": "number"
                },
                "submissionDate": {
                    "type": "string",
                    "format": "date-time"
                },
                "instructorId": {
                    "type": "string"
                },
                "instructorName": {
                    "type": "string"
                },
                "comments": {
                    "type": "string"
                }
            }
        },
        "CreateAttendanceRequest": {
            "type": "object",
            "properties": {
                "studentId": {
                    "type": "string"
                },
                "courseId": {
                    "type": "string"
                },
                "courseName": {
                    "type": "string"
                },
                "date": {
                    "type": "string",
                    "format": "date-time"
                },
                "status": {
                    "type": "string",
                    "enum": [
                        "present",
                        "absent",
                        "late",
                        "excused"
                    ]
                },
                "duration": {
                    "type": "integer"
                },
                "notes": {
                    "type": "string"
                }
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {
                    "type": "integer"
                },
                "pageSize": {
                    "type": "integer"
                },
                "totalCount": {
                    "type": "integer"
                }
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                },
                "status": {
                    "type": "integer"
                },
                "details": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "string"
                    }
                }
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "object"
                },
                "error": {
                    "$ref": "#/definitions/APIError"
                },
                "pagination": {
                    "$ref": "#/definitions/Pagination"
                },
                "meta": {
                    "type": "object"
                }
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
