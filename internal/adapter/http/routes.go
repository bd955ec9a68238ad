package http

import (
	"github.com/labstack/echo/v4"
)

// Routes bundles the handlers mounted under /api. Auth guards the whole
// group; Idempotency wraps every route except the stateless calculators.
type Routes struct {
	Health        *Handler
	Loans         *LoanHandler
	Approvals     *ApprovalHandler
	Repayments    *RepaymentHandler
	Notifications *NotificationHandler
	Audit         *AuditHandler
	Auth          echo.MiddlewareFunc
	Idempotency   echo.MiddlewareFunc
}

func Register(e *echo.Echo, r Routes) {
	e.GET("/health", r.Health.Health)

	api := e.Group("/api", present(r.Auth)...)
	api.POST("/calculate-emi", r.Loans.CalculateEMI)
	api.POST("/check-eligibility", r.Loans.CheckEligibility)

	g := api.Group("", present(r.Idempotency)...)

	g.POST("/save-loan", r.Loans.SaveLoan)
	g.GET("/get-loan/:id", r.Loans.GetLoan)
	g.GET("/get-loans", r.Loans.ListLoans)
	g.POST("/upload-doc/:id", r.Loans.UploadDoc)
	g.GET("/dashboard/banker", r.Loans.Dashboard)

	g.PUT("/approve-loan/:id", r.Approvals.Approve)
	g.PUT("/reject-loan/:id", r.Approvals.Reject)
	g.PUT("/request-revision/:id", r.Approvals.RequestRevision)
	g.PUT("/verify-doc/:loanId/:docIndex", r.Approvals.VerifyDocument)
	g.GET("/review-history/:id", r.Approvals.ReviewHistory)

	g.POST("/repayments/generate/:loanId", r.Repayments.Generate)
	g.POST("/repayments/pay/:repaymentId", r.Repayments.Pay)
	g.GET("/repayments/loan/:loanId", r.Repayments.Schedule)
	g.GET("/repayments/loan/:loanId/export", r.Repayments.Export)
	g.GET("/repayments/loans", r.Repayments.Loans)
	g.GET("/repayments/summary", r.Repayments.Summary)
	g.GET("/repayments/collections", r.Repayments.Collections)

	g.GET("/notifications", r.Notifications.List)
	g.PUT("/notifications/read-all", r.Notifications.MarkAllRead)
	g.PUT("/notifications/:id/read", r.Notifications.MarkRead)

	if r.Audit != nil {
		g.GET("/audit-logs", r.Audit.List)
		g.GET("/audit-logs/:id", r.Audit.Get)
	}
}

func present(mws ...echo.MiddlewareFunc) []echo.MiddlewareFunc {
	var out []echo.MiddlewareFunc
	for _, m := range mws {
		if m != nil {
			out = append(out, m)
		}
	}
	return out
}
