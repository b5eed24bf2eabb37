package swagger

const enrollmentsTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Enrollments Service",
        "description": "Enrollment registry. Writes resolve the student and course from their services and store a snapshot of their names.",
        "version": "{{.Version}}"
    },
    "basePath": "{{.BasePath}}",
    "schemes": {{ marshal .Schemes }},
    "tags": [
        {"name": "Enrollments", "description": "Student course enrollments"}
    ],
    "paths": {
        ` + operationalPaths + `,
        "/api/v1/enrollments": {
            "get": {
                "tags": ["Enrollments"],
                "summary": "List enrollments",
                "produces": ["application/json", "text/event-stream"],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/EnrollmentResponse"}}}
                }
            },
            "post": {
                "tags": ["Enrollments"],
                "summary": "Create enrollment",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/EnrollmentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/EnrollmentResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "404": {"description": "Student or course not found", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "422": {"description": "Student or course id rejected", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "500": {"description": "Remote service failure", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/api/v1/enrollments/{id}": {
            "parameters": [
                {"in": "path", "name": "id", "required": true, "type": "string", "minLength": 36, "maxLength": 36}
            ],
            "get": {
                "tags": ["Enrollments"],
                "summary": "Get enrollment",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/EnrollmentResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "422": {"description": "Invalid id", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            },
            "put": {
                "tags": ["Enrollments"],
                "summary": "Update enrollment",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/EnrollmentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/EnrollmentResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "422": {"description": "Invalid id", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            },
            "delete": {
                "tags": ["Enrollments"],
                "summary": "Delete enrollment",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "Deleted enrollment", "schema": {"$ref": "#/definitions/EnrollmentResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "422": {"description": "Invalid id", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        }
    },
    "definitions": {
        "EnrollmentRequest": {
            "type": "object",
            "required": ["enrollmentYear", "semester", "studentId", "courseId"],
            "properties": {
                "enrollmentYear": {"type": "integer"},
                "semester": {"type": "string", "enum": ["FALL", "SPRING", "SUMMER"]},
                "studentId": {"type": "string"},
                "courseId": {"type": "string"}
            }
        },
        "EnrollmentResponse": {
            "type": "object",
            "properties": {
                "enrollmentId": {"type": "string"},
                "enrollmentYear": {"type": "integer"},
                "semester": {"type": "string", "enum": ["FALL", "SPRING", "SUMMER"]},
                "studentId": {"type": "string"},
                "studentFirstName": {"type": "string"},
                "studentLastName": {"type": "string"},
                "courseId": {"type": "string"},
                "courseNumber": {"type": "string"},
                "courseName": {"type": "string"}
            }
        },
        ` + errorBodyDefinition + `
    }
}`
