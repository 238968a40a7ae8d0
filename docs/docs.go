// Package docs 接口文档，由 swag init 根据 main.go 与 api 包注释生成
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/auth/register": {
            "post": {
                "tags": ["认证"],
                "summary": "用户注册",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/api.RegisterRequest"}}],
                "responses": {"200": {"description": "注册成功", "schema": {"$ref": "#/definitions/api.Response"}}}
            }
        },
        "/api/v1/auth/login": {
            "post": {
                "tags": ["认证"],
                "summary": "用户登录",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/api.LoginRequest"}}],
                "responses": {"200": {"description": "登录成功", "schema": {"$ref": "#/definitions/api.Response"}}}
            }
        },
        "/api/v1/transactions": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["收支记录"],
                "summary": "获取收支记录列表",
                "parameters": [
                    {"type": "integer", "default": 1, "name": "page", "in": "query"},
                    {"type": "integer", "default": 20, "name": "page_size", "in": "query"},
                    {"type": "string", "name": "category", "in": "query"},
                    {"type": "string", "name": "start_date", "in": "query"},
                    {"type": "string", "name": "end_date", "in": "query"}
                ],
                "responses": {"200": {"description": "获取成功", "schema": {"$ref": "#/definitions/api.Response"}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["收支记录"],
                "summary": "创建收支记录",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/api.CreateTransactionRequest"}}],
                "responses": {"200": {"description": "创建成功", "schema": {"$ref": "#/definitions/api.Response"}}}
            }
        },
        "/api/v1/budgets": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["预算"],
                "summary": "获取预算列表",
                "parameters": [
                    {"type": "integer", "name": "month", "in": "query"},
                    {"type": "integer", "name": "year", "in": "query"}
                ],
                "responses": {"200": {"description": "获取成功", "schema": {"$ref": "#/definitions/api.Response"}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["预算"],
                "summary": "创建预算",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/api.CreateBudgetRequest"}}],
                "responses": {
                    "200": {"description": "创建成功", "schema": {"$ref": "#/definitions/api.Response"}},
                    "409": {"description": "预算已存在", "schema": {"$ref": "#/definitions/api.Response"}}
                }
            }
        },
        "/api/v1/budgets/progress": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["预算"],
                "summary": "预算执行进度",
                "parameters": [
                    {"type": "integer", "name": "month", "in": "query"},
                    {"type": "integer", "name": "year", "in": "query"}
                ],
                "responses": {"200": {"description": "获取成功", "schema": {"$ref": "#/definitions/api.Response"}}}
            }
        },
        "/api/v1/bills/due-soon": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["账单"],
                "summary": "即将到期的账单",
                "parameters": [{"type": "integer", "default": 7, "name": "days", "in": "query"}],
                "responses": {"200": {"description": "获取成功", "schema": {"$ref": "#/definitions/api.Response"}}}
            }
        }
    },
    "definitions": {
        "api.Response": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "data": {},
                "message": {"type": "string"}
            }
        },
        "api.RegisterRequest": {
            "type": "object",
            "required": ["password", "username"],
            "properties": {
                "email": {"type": "string", "example": "test@example.com"},
                "password": {"type": "string", "maxLength": 50, "minLength": 6, "example": "password123"},
                "username": {"type": "string", "maxLength": 50, "minLength": 3, "example": "testuser"}
            }
        },
        "api.LoginRequest": {
            "type": "object",
            "required": ["password", "username"],
            "properties": {
                "password": {"type": "string", "example": "password123"},
                "username": {"type": "string", "example": "testuser"}
            }
        },
        "api.CreateTransactionRequest": {
            "type": "object",
            "required": ["category", "date"],
            "properties": {
                "amount": {"type": "string", "example": "99.99"},
                "category": {"type": "string", "maxLength": 100, "example": "Food"},
                "date": {"type": "string", "example": "2024-06-15"},
                "description": {"type": "string", "example": "午餐"}
            }
        },
        "api.CreateBudgetRequest": {
            "type": "object",
            "required": ["category", "month", "year"],
            "properties": {
                "alert_percentage": {"type": "integer", "maximum": 100, "minimum": 1, "example": 80},
                "amount": {"type": "string", "example": "500.00"},
                "category": {"type": "string", "maxLength": 100, "example": "Food"},
                "month": {"type": "integer", "maximum": 12, "minimum": 1, "example": 6},
                "year": {"type": "integer", "maximum": 2100, "minimum": 2000, "example": 2024}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "预算提醒记账系统 API",
	Description:      "记账、月度类别预算、账单到期与邮件提醒",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
