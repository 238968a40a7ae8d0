package main

import "spendwatch/cmd"

// @title 预算提醒记账系统 API
// @version 1.0
// @description 记账、月度类别预算、账单到期与邮件提醒
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cmd.Execute()
}
