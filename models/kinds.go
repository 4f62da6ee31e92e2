package models

// Entity kinds, used as the cache key namespace.
const (
	KindLead       = "leads"
	KindInquiry    = "inquiries"
	KindClient     = "clients"
	KindUser       = "users"
	KindProduct    = "products"
	KindDocument   = "documents"
	KindReport     = "reports"
	KindAttendance = "attendance"
)
