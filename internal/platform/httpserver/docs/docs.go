// Package docs registers the service's swagger document.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/healthz": {
            "get": {
                "produces": ["application/json"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/v1/elections": {
            "get": {
                "produces": ["application/json"],
                "summary": "List elections",
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Create an election with a fixed candidate set",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Invalid configuration"}
                }
            }
        },
        "/v1/elections/{election_id}": {
            "get": {
                "produces": ["application/json"],
                "summary": "Election summary",
                "parameters": [
                    {"type": "string", "name": "election_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/v1/elections/{election_id}/ballots": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Cast one voter's full ranking",
                "parameters": [
                    {"type": "string", "name": "election_id", "in": "path", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Ballot rejected"},
                    "404": {"description": "Not found"},
                    "409": {"description": "Election closed"}
                }
            }
        },
        "/v1/elections/{election_id}/standings": {
            "get": {
                "produces": ["application/json"],
                "summary": "Current round tally",
                "parameters": [
                    {"type": "string", "name": "election_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/v1/elections/{election_id}/decide": {
            "post": {
                "produces": ["application/json"],
                "summary": "Run the instant runoff to completion",
                "parameters": [
                    {"type": "string", "name": "election_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Decided"},
                    "404": {"description": "Not found"},
                    "422": {"description": "Undecidable election"}
                }
            }
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "RankVote API",
	Description:      "Instant runoff voting service.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
