package swagger

const coursesTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Courses Service",
        "description": "Course registry",
        "version": "{{.Version}}"
    },
    "basePath": "{{.BasePath}}",
    "schemes": {{ marshal .Schemes }},
    "tags": [
        {"name": "Courses", "description": "Course catalogue"}
    ],
    "paths": {
        ` + operationalPaths + `,
        "/api/v1/courses": {
            "get": {
                "tags": ["Courses"],
                "summary": "List courses",
                "produces": ["application/json", "text/event-stream"],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/CourseResponse"}}}
                }
            },
            "post": {
                "tags": ["Courses"],
                "summary": "Create course",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/CourseRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/CourseResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/api/v1/courses/{id}": {
            "parameters": [
                {"in": "path", "name": "id", "required": true, "type": "string", "minLength": 36, "maxLength": 36}
            ],
            "get": {
                "tags": ["Courses"],
                "summary": "Get course",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/CourseResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "422": {"description": "Invalid id", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            },
            "put": {
                "tags": ["Courses"],
                "summary": "Update course",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/CourseRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/CourseResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "422": {"description": "Invalid id", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            },
            "delete": {
                "tags": ["Courses"],
                "summary": "Delete course",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "Deleted course", "schema": {"$ref": "#/definitions/CourseResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "422": {"description": "Invalid id", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        }
    },
    "definitions": {
        "CourseRequest": {
            "type": "object",
            "required": ["courseNumber", "courseName"],
            "properties": {
                "courseNumber": {"type": "string"},
                "courseName": {"type": "string"},
                "numHours": {"type": "integer", "minimum": 0},
                "numCredits": {"type": "number", "minimum": 0},
                "department": {"type": "string"}
            }
        },
        "CourseResponse": {
            "type": "object",
            "properties": {
                "courseId": {"type": "string"},
                "courseNumber": {"type": "string"},
                "courseName": {"type": "string"},
                "numHours": {"type": "integer"},
                "numCredits": {"type": "number"},
                "department": {"type": "string"}
            }
        },
        ` + errorBodyDefinition + `
    }
}`
