package handler

// Сообщения API на языке интерфейса (zh-CN)
const (
	msgRunning       = "IT版本管理系统API正在运行"
	msgNotFound      = "找不到该版本"
	msgListFailed    = "获取版本列表失败"
	msgGetFailed     = "获取版本详情失败"
	msgCreateFailed  = "创建版本失败"
	msgUpdateFailed  = "更新版本失败"
	msgDeleteFailed  = "删除版本失败"
	msgChartFailed   = "获取甘特图数据失败"
	msgDeleted       = "版本已成功删除"
	msgBadJSON       = "请求格式错误"
	msgBadID         = "无效的版本ID"
	msgValidationFmt = "数据校验失败: %s"
)
