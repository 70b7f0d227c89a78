package dashboard

// Candidate field names, in resolution priority, per entity type.
var (
	statusFields        = []string{"status"}
	invoiceStatusFields = []string{"status", "billing_status", "payment_status"}
	labFlagFields       = []string{"status", "flag", "result_flag", "abnormal_flag", "severity"}

	patientDateFields       = []string{"created_at", "registered_at", "registration_date"}
	appointmentDateFields   = []string{"scheduled_start", "scheduled_at", "start_time", "appointment_date", "created_at"}
	admissionDateFields     = []string{"admitted_at", "admission_date", "created_at"}
	invoiceDateFields       = []string{"issued_at", "invoice_date", "created_at"}
	invoicePaidDateFields   = []string{"paid_at", "payment_date", "issued_at", "invoice_date", "created_at"}
	invoiceDueFields        = []string{"due_date", "due_at"}
	labOrderDateFields      = []string{"ordered_at", "collected_at", "created_at"}
	labResultDateFields     = []string{"reported_at", "verified_at", "updated_at", "created_at"}
	labResultStartFields    = []string{"created_at"}
	labResultReportFields   = []string{"reported_at", "updated_at"}
	pharmacyOrderDateFields = []string{"ordered_at", "prescribed_at", "created_at"}
	dispenseDateFields      = []string{"dispensed_at", "created_at"}

	invoiceTotalFields  = []string{"total_amount", "amount_total", "total", "amount"}
	invoicePaidFields   = []string{"amount_paid", "paid_amount"}
	stockQuantityFields = []string{"quantity", "quantity_on_hand", "on_hand", "available_quantity"}
	stockReorderFields  = []string{"reorder_level", "reorder_point", "minimum_quantity"}
	dispenseUnitFields  = []string{"quantity", "quantity_dispensed", "dispensed_quantity"}

	patientNameFields = []string{"patient_name", "patient.full_name", "patient.name", "patient_display"}
)

// Status vocabularies.
var (
	appointmentStatuses = []string{"SCHEDULED", "CONFIRMED", "CHECKED_IN", "IN_PROGRESS", "COMPLETED", "CANCELLED", "NO_SHOW"}
	appointmentUpcoming = []string{"SCHEDULED", "CONFIRMED", "BOOKED"}
	appointmentActive   = []string{"CHECKED_IN", "IN_PROGRESS", "ARRIVED"}
	appointmentDone     = []string{"COMPLETED"}
	appointmentNoShow   = []string{"NO_SHOW"}

	admissionActive           = []string{"ADMITTED", "ACTIVE", "IN_PROGRESS", "TRANSFERRED"}
	admissionDischargePending = []string{"DISCHARGE_PENDING", "PENDING_DISCHARGE", "DISCHARGE_PLANNED"}

	invoiceOpen      = []string{"ISSUED", "PENDING", "UNPAID", "PARTIALLY_PAID", "OVERDUE"}
	invoicePaid      = []string{"PAID"}
	invoiceOverdue   = []string{"OVERDUE"}
	invoiceCancelled = []string{"CANCELLED", "VOID", "VOIDED"}

	labOrderStatuses      = []string{"ORDERED", "COLLECTED", "IN_PROCESS", "COMPLETED", "CANCELLED"}
	labPendingCollection  = []string{"ORDERED", "PENDING", "REQUESTED", "AWAITING_COLLECTION"}
	labInProcess          = []string{"COLLECTED", "SAMPLE_COLLECTED", "RECEIVED", "IN_PROCESS", "IN_PROGRESS", "PROCESSING"}
	labCompleted          = []string{"COMPLETED", "REPORTED", "RESULTED", "VERIFIED"}
	labTerminal           = []string{"COMPLETED", "REPORTED", "RESULTED", "VERIFIED", "CANCELLED", "REJECTED"}
	labCritical           = []string{"CRITICAL", "CRITICAL_HIGH", "CRITICAL_LOW"}
	labAwaitingValidation = []string{"PRELIMINARY", "PENDING_VERIFICATION", "PENDING_REVIEW", "DRAFT"}

	pharmacyOrderStatuses = []string{"PENDING", "VERIFIED", "PARTIALLY_DISPENSED", "DISPENSED", "CANCELLED"}
	pharmacyPending       = []string{"PENDING", "NEW", "VERIFIED", "APPROVED", "READY"}
	pharmacyPartial       = []string{"PARTIALLY_DISPENSED", "PARTIAL"}
	pharmacyDispensed     = []string{"DISPENSED", "COMPLETED"}
	pharmacyCancelled     = []string{"CANCELLED", "CANCELED", "REJECTED"}
)

// withFields concatenates candidate lists without aliasing the package slices.
func withFields(base []string, extra ...string) []string {
	out := make([]string, 0, len(base)+len(extra))
	out = append(out, base...)
	return append(out, extra...)
}
