// Package swagger holds the OpenAPI documents served under /docs.
package swagger

import "github.com/swaggo/swag"

// Instance names used with ginSwagger.InstanceName.
const (
	CoursesInstance     = "courses"
	EnrollmentsInstance = "enrollments"
)

const errorBodyDefinition = `"ErrorBody": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "code": {"type": "string"},
                "status": {"type": "integer"},
                "path": {"type": "string"},
                "timestamp": {"type": "string", "format": "date-time"}
            }
        }`

const operationalPaths = `"/health": {
            "get": {
                "summary": "Health check",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "Backing store unreachable"}
                }
            }
        },
        "/metrics": {
            "get": {
                "summary": "Prometheus metrics",
                "produces": ["text/plain"],
                "responses": {"200": {"description": "OK"}}
            }
        }`

func register(instance, template string) {
	spec := &swag.Spec{
		Version:          "1.0.0",
		BasePath:         "/",
		Schemes:          []string{"http"},
		InfoInstanceName: instance,
		SwaggerTemplate:  template,
	}
	swag.Register(spec.InstanceName(), spec)
}

func init() {
	register(CoursesInstance, coursesTemplate)
	register(EnrollmentsInstance, enrollmentsTemplate)
}
