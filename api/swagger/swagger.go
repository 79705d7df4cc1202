package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Course Store API",
        "description": "Remote course store serving the course portal",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": ["http"],
    "securityDefinitions": {
        "Bearer": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Courses", "description": "Course catalogue"},
        {"name": "Sections", "description": "Sections of a course"},
        {"name": "Contents", "description": "Videos and documents attached to sections"},
        {"name": "Submissions", "description": "Assignments and student progress"}
    ],
    "paths": {
        "/course/details": {
            "get": {
                "tags": ["Courses"],
                "summary": "List courses",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Course"}}}
                }
            }
        },
        "/course/add": {
            "post": {
                "tags": ["Courses"],
                "summary": "Create course",
                "security": [{"Bearer": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CourseDraft"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Course"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/course/update": {
            "put": {
                "tags": ["Courses"],
                "summary": "Update course",
                "security": [{"Bearer": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/Course"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Course"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/course/delete": {
            "delete": {
                "tags": ["Courses"],
                "summary": "Delete course",
                "security": [{"Bearer": []}],
                "parameters": [
                    {"name": "course_id", "in": "query", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Deleted", "schema": {"$ref": "#/definitions/Message"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/course/section/details": {
            "get": {
                "tags": ["Sections"],
                "summary": "List sections of a course",
                "parameters": [
                    {"name": "id", "in": "query", "required": true, "type": "integer", "description": "Course ID"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Section"}}}
                }
            }
        },
        "/course/section/add": {
            "post": {
                "tags": ["Sections"],
                "summary": "Create section",
                "security": [{"Bearer": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/Section"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Section"}}
                }
            }
        },
        "/course/section/update": {
            "put": {
                "tags": ["Sections"],
                "summary": "Update section",
                "security": [{"Bearer": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/Section"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Section"}}
                }
            }
        },
        "/course/section/delete": {
            "delete": {
                "tags": ["Sections"],
                "summary": "Delete section",
                "consumes": ["text/plain"],
                "security": [{"Bearer": []}],
                "parameters": [
                    {"name": "id", "in": "body", "required": true, "schema": {"type": "string"}, "description": "Section ID"}
                ],
                "responses": {
                    "200": {"description": "Deleted", "schema": {"$ref": "#/definitions/Message"}}
                }
            }
        },
        "/course/section/content/details": {
            "get": {
                "tags": ["Contents"],
                "summary": "List contents of a section",
                "parameters": [
                    {"name": "id", "in": "query", "required": true, "type": "integer", "description": "Section ID"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Content"}}}
                }
            }
        },
        "/course/section/content/add": {
            "post": {
                "tags": ["Contents"],
                "summary": "Attach content",
                "security": [{"Bearer": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/Content"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Content"}}
                }
            }
        },
        "/course/section/content/delete": {
            "delete": {
                "tags": ["Contents"],
                "summary": "Delete content",
                "consumes": ["text/plain"],
                "security": [{"Bearer": []}],
                "parameters": [
                    {"name": "id", "in": "body", "required": true, "schema": {"type": "string"}, "description": "Content ID"}
                ],
                "responses": {
                    "200": {"description": "Deleted", "schema": {"$ref": "#/definitions/Message"}},
                    "403": {"description": "Not the course instructor", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/assignments/course": {
            "get": {
                "tags": ["Submissions"],
                "summary": "List assignments of a course",
                "parameters": [
                    {"name": "courseId", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/AssignmentList"}}
                }
            }
        },
        "/assignments": {
            "post": {
                "tags": ["Submissions"],
                "summary": "Publish an assignment",
                "security": [{"Bearer": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/Assignment"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Assignment"}}
                }
            }
        },
        "/submissions/courses/{courseId}/student-progress": {
            "get": {
                "tags": ["Submissions"],
                "summary": "Student progress of a course",
                "parameters": [
                    {"name": "courseId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ProgressReport"}}
                }
            },
            "put": {
                "tags": ["Submissions"],
                "summary": "Record a student's progress",
                "security": [{"Bearer": []}],
                "parameters": [
                    {"name": "courseId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ProgressRecord"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ProgressRecord"}}
                }
            }
        },
        "/submissions/courses/{courseId}/student-progress/export": {
            "post": {
                "tags": ["Reports"],
                "summary": "Export the student progress report",
                "security": [{"Bearer": []}],
                "parameters": [
                    {"name": "courseId", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"], "default": "csv"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ProgressExport"}},
                    "400": {"description": "Unsupported format", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/exports/{token}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download an exported report",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "token", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Report file", "schema": {"type": "file"}},
                    "404": {"description": "Invalid link", "schema": {"$ref": "#/definitions/APIError"}},
                    "410": {"description": "Expired link", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        }
    },
    "definitions": {
        "CourseDraft": {
            "type": "object",
            "required": ["courseTitle", "courseDescription", "duration", "credit"],
            "properties": {
                "courseTitle": {"type": "string"},
                "courseDescription": {"type": "string"},
                "instructorName": {"type": "string"},
                "dept": {"type": "string"},
                "duration": {"type": "integer", "minimum": 1},
                "credit": {"type": "integer", "minimum": 1, "maximum": 10},
                "isActive": {"type": "boolean"}
            }
        },
        "Course": {
            "type": "object",
            "properties": {
                "course_id": {"type": "integer"},
                "courseTitle": {"type": "string"},
                "courseDescription": {"type": "string"},
                "instructorName": {"type": "string"},
                "dept": {"type": "string"},
                "duration": {"type": "integer"},
                "credit": {"type": "integer"},
                "isActive": {"type": "boolean"},
                "createdAt": {"type": "string", "format": "date-time"},
                "updatedAt": {"type": "string", "format": "date-time"}
            }
        },
        "Section": {
            "type": "object",
            "properties": {
                "section_id": {"type": "integer"},
                "course": {"type": "object", "properties": {"course_id": {"type": "integer"}}},
                "sectionTitle": {"type": "string"},
                "sectionDesc": {"type": "string"},
                "createdAt": {"type": "string", "format": "date-time"},
                "updatedAt": {"type": "string", "format": "date-time"}
            }
        },
        "Content": {
            "type": "object",
            "properties": {
                "content_id": {"type": "integer"},
                "contentType": {"type": "string", "enum": ["VIDEO", "PDF"]},
                "content": {"type": "string", "format": "uri"},
                "section": {"type": "object", "properties": {"section_id": {"type": "integer"}}}
            }
        },
        "Assignment": {
            "type": "object",
            "properties": {
                "assignment_id": {"type": "string"},
                "course_id": {"type": "string"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "createdAt": {"type": "string", "format": "date-time"},
                "fileno": {"type": "string"},
                "resourcelink": {"type": "string"}
            }
        },
        "AssignmentList": {
            "type": "object",
            "properties": {
                "assignments": {"type": "array", "items": {"$ref": "#/definitions/Assignment"}},
                "message": {"type": "string"}
            }
        },
        "ProgressRecord": {
            "type": "object",
            "properties": {
                "studentRollNumber": {"type": "string"},
                "studentName": {"type": "string"},
                "studentDepartment": {"type": "string"},
                "progressPercentage": {"type": "number"},
                "averageGrade": {"type": "number"}
            }
        },
        "ProgressReport": {
            "type": "object",
            "properties": {
                "students": {"type": "array", "items": {"$ref": "#/definitions/ProgressRecord"}}
            }
        },
        "ProgressExport": {
            "type": "object",
            "properties": {
                "url": {"type": "string"},
                "format": {"type": "string"},
                "expiresAt": {"type": "string", "format": "date-time"}
            }
        },
        "Message": {
            "type": "object",
            "properties": {"message": {"type": "string"}}
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
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
