package code

// Success 成功响应码
var Success = NewSuss(0, lang{
	en:    "Success",
	zh_cn: "成功",
})

// 通用错误码 1-99
var (
	ErrorServerInternal = NewError(1, lang{
		en:    "Internal server error",
		zh_cn: "服务器内部错误",
	})
	ErrorInvalidParams = NewError(2, lang{
		en:    "Invalid request parameters",
		zh_cn: "请求参数错误",
	})
	ErrorNotFoundAPI = NewError(3, lang{
		en:    "API not found",
		zh_cn: "接口不存在",
	})
	ErrorTooManyRequests = NewError(4, lang{
		en:    "Too many requests",
		zh_cn: "请求过多",
	})
	ErrorStoreUnavailable = NewError(10, lang{
		en:    "Storage unavailable",
		zh_cn: "存储服务不可用",
	})
)

// 认证相关错误码 20-39
var (
	ErrorNotUserAuthToken = NewError(20, lang{
		en:    "Auth token is missing",
		zh_cn: "缺少认证 Token",
	})
	ErrorInvalidUserAuthToken = NewError(21, lang{
		en:    "Auth token is invalid",
		zh_cn: "认证 Token 无效",
	})
	ErrorTokenGenerate = NewError(22, lang{
		en:    "Failed to generate auth token",
		zh_cn: "生成认证 Token 失败",
	})
)

// 用户相关错误码 100-199
var (
	ErrorUserRegisterIsDisable = NewError(100, lang{
		en:    "User registration is disabled",
		zh_cn: "用户注册已关闭",
	})
	ErrorUserEmailAlreadyExists = NewError(101, lang{
		en:    "Email is already registered",
		zh_cn: "邮箱已被注册",
	})
	ErrorUserNotFound = NewError(102, lang{
		en:    "User not found",
		zh_cn: "用户不存在",
	})
	ErrorUserLoginPasswordFailed = NewError(103, lang{
		en:    "Incorrect email or password",
		zh_cn: "邮箱或密码错误",
	})
	ErrorUserOldPasswordFailed = NewError(104, lang{
		en:    "Old password is incorrect",
		zh_cn: "旧密码错误",
	})
	ErrorUserPasswordNotMatch = NewError(105, lang{
		en:    "Passwords do not match",
		zh_cn: "两次输入的密码不一致",
	})
	ErrorPasswordNotValid = NewError(106, lang{
		en:    "Password is not valid",
		zh_cn: "密码不合法",
	})
	ErrorUserEmailNotValid = NewError(107, lang{
		en:    "Email format is not valid",
		zh_cn: "邮箱格式不合法",
	})
	ErrorUserRegister = NewError(108, lang{
		en:    "Failed to register user",
		zh_cn: "用户注册失败",
	})
)

// 笔记相关错误码 200-299
var (
	ErrorNoteNotFound = NewError(200, lang{
		en:    "Note not found",
		zh_cn: "笔记不存在",
	})
	ErrorNoteForbidden = NewError(201, lang{
		en:    "Operation on this note is not allowed",
		zh_cn: "没有权限对该笔记执行此操作",
	})
	ErrorNoteVersionConflict = NewError(202, lang{
		en:    "Note was modified by another request, please reload and retry",
		zh_cn: "笔记已被其他请求修改，请刷新后重试",
	})
	ErrorNoteCreate = NewError(203, lang{
		en:    "Failed to create note",
		zh_cn: "创建笔记失败",
	})
	ErrorShareRoleNotValid = NewError(204, lang{
		en:    "Share role must be reader or writer",
		zh_cn: "分享角色必须为 reader 或 writer",
	})
	ErrorShareSelfNotAllowed = NewError(205, lang{
		en:    "Cannot share a note with its owner",
		zh_cn: "不能将笔记分享给所有者本人",
	})
	ErrorShareUserNotFound = NewError(206, lang{
		en:    "Target user to share with does not exist",
		zh_cn: "分享目标用户不存在",
	})
)
