package domain

var Tables = []interface{}{
	// System
	&SysKV{},
}
