package models

import "strings"

// 默认预算类别（用户尚无任何预算与消费时用于预算滑块的初始值）
const (
	CategoryFood           = "Food"
	CategoryTransportation = "Transportation"
	CategoryEntertainment  = "Entertainment"
	CategoryHousing        = "Housing"
)

// GetDefaultCategories 获取默认预算类别
func GetDefaultCategories() []string {
	return []string{
		CategoryFood,
		CategoryTransportation,
		CategoryEntertainment,
		CategoryHousing,
	}
}

// NormalizeCategory 生成类别匹配键：去除首尾空白、合并连续空白、转小写
// "Food"、" food "、"FOOD" 归一化后相同
func NormalizeCategory(category string) string {
	return strings.ToLower(strings.Join(strings.Fields(category), " "))
}
