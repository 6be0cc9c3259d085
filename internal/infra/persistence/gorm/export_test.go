package gormpersistence

// IsDuplicateEntryError 仅供测试使用
var IsDuplicateEntryError = isDuplicateEntryError
