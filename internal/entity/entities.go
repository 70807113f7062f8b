package entity

// definitions is the full, closed set of CRM entities. Every tenant
// database carries the same schema, so one static table serves all
// registries; the build loop in registry.go binds each entry to the
// tenant's connection.
//
// Adding an entity means adding a row here (and its relations in
// associations.go) — nothing is discovered by reflection.
var definitions = []Definition{
	// Users, roles, teams
	def("MasterUser", "master_users", "email", "password_hash", "first_name", "last_name", "phone", "role_id", "reports_to_id", "is_active", "last_login_at"),
	def("Role", "roles", "name", "description"),
	def("Permission", "permissions", "role_id", "module", "can_view", "can_create", "can_edit", "can_delete"),
	def("Team", "teams", "name", "manager_id"),
	def("TeamMember", "team_members", "team_id", "master_user_id"),
	def("LoginHistory", "login_histories", "master_user_id", "ip_address", "user_agent", "logged_in_at"),
	def("ApiKey", "api_keys", "master_user_id", "name", "key_hash", "last_used_at", "expires_at"),

	// Leads
	def("Lead", "leads", "title", "first_name", "last_name", "email", "phone", "company_name", "lead_source_id", "lead_status_id", "owner_id", "organization_id", "converted_deal_id", "estimated_value", "currency_id"),
	def("LeadSource", "lead_sources", "name"),
	def("LeadStatus", "lead_statuses", "name", "position", "is_terminal"),
	def("LeadNote", "lead_notes", "lead_id", "author_id", "body"),
	def("LeadDocument", "lead_documents", "lead_id", "document_id"),
	def("LeadColumnPreference", "lead_column_preferences", "master_user_id", "columns", "position"),

	// Deals and pipelines
	def("Pipeline", "pipelines", "name", "is_default"),
	def("Stage", "stages", "pipeline_id", "name", "position", "probability", "is_won", "is_lost"),
	def("Deal", "deals", "title", "pipeline_id", "stage_id", "owner_id", "organization_id", "contact_person_id", "value", "currency_id", "expected_close_date", "closed_at", "lost_reason_id"),
	def("DealNote", "deal_notes", "deal_id", "author_id", "body"),
	def("DealDocument", "deal_documents", "deal_id", "document_id"),
	def("DealProduct", "deal_products", "deal_id", "product_id", "quantity", "unit_price", "discount_percent"),
	def("DealParticipant", "deal_participants", "deal_id", "contact_person_id"),
	def("DealColumnPreference", "deal_column_preferences", "master_user_id", "columns", "position"),
	def("LostReason", "lost_reasons", "name"),

	// Contacts and organizations
	def("Organization", "organizations", "name", "owner_id", "industry_id", "website", "phone", "address", "city_id", "state_id", "country_id", "postal_code", "annual_revenue", "employee_count"),
	def("OrganizationNote", "organization_notes", "organization_id", "author_id", "body"),
	def("OrganizationDocument", "organization_documents", "organization_id", "document_id"),
	def("OrganizationColumnPreference", "organization_column_preferences", "master_user_id", "columns", "position"),
	def("ContactPerson", "contact_persons", "first_name", "last_name", "email", "phone", "mobile", "designation_id", "organization_id", "owner_id"),
	def("ContactNote", "contact_notes", "contact_person_id", "author_id", "body"),
	def("ContactDocument", "contact_documents", "contact_person_id", "document_id"),
	def("ContactColumnPreference", "contact_column_preferences", "master_user_id", "columns", "position"),

	// Products
	def("Product", "products", "name", "sku", "product_category_id", "owner_id", "unit_price", "currency_id", "tax_percent", "is_active", "description"),
	def("ProductCategory", "product_categories", "name", "parent_id"),
	def("ProductVariant", "product_variants", "product_id", "name", "sku", "unit_price"),
	def("PriceBook", "price_books", "name", "currency_id", "is_default"),
	def("PriceBookEntry", "price_book_entries", "price_book_id", "product_id", "unit_price"),
	def("ProductDocument", "product_documents", "product_id", "document_id"),
	def("ProductColumnPreference", "product_column_preferences", "master_user_id", "columns", "position"),

	// Activities
	def("Activity", "activities", "subject", "activity_type_id", "owner_id", "lead_id", "deal_id", "contact_person_id", "organization_id", "due_at", "completed_at", "description"),
	def("ActivityType", "activity_types", "name", "icon"),
	def("Task", "tasks", "activity_id", "priority", "status"),
	def("Call", "calls", "activity_id", "direction", "duration_seconds", "outcome"),
	def("Meeting", "meetings", "activity_id", "location", "starts_at", "ends_at"),
	def("MeetingParticipant", "meeting_participants", "meeting_id", "contact_person_id", "master_user_id", "response"),
	def("ActivityColumnPreference", "activity_column_preferences", "master_user_id", "columns", "position"),

	// Email
	def("EmailAccount", "email_accounts", "master_user_id", "address", "provider", "imap_host", "imap_port", "smtp_host", "smtp_port", "sync_state", "last_synced_at"),
	def("EmailMessage", "email_messages", "email_account_id", "message_uid", "thread_id", "subject", "from_address", "to_addresses", "body_html", "lead_id", "deal_id", "contact_person_id", "sent_at", "is_read"),
	def("EmailAttachment", "email_attachments", "email_message_id", "file_id", "filename", "content_type", "size_bytes"),
	def("EmailTemplate", "email_templates", "name", "subject", "body_html", "owner_id", "is_shared"),
	def("EmailSignature", "email_signatures", "master_user_id", "name", "body_html", "is_default"),
	def("EmailLabel", "email_labels", "email_account_id", "name", "color"),

	// Notes, documents, files
	def("Note", "notes", "author_id", "body", "pinned"),
	def("Document", "documents", "title", "owner_id", "folder_id", "file_id", "shared"),
	def("Folder", "folders", "name", "parent_id", "owner_id"),
	def("File", "files", "storage_key", "filename", "content_type", "size_bytes", "uploaded_by_id"),

	// Tags
	def("Tag", "tags", "name", "color"),
	def("Tagging", "taggings", "tag_id", "record_type", "record_id"),

	// Reference data
	def("Currency", "currencies", "code", "symbol", "name", "is_base", "exchange_rate"),
	def("Country", "countries", "name", "iso_code"),
	def("State", "states", "country_id", "name"),
	def("City", "cities", "state_id", "name"),
	def("Industry", "industries", "name"),
	def("Designation", "designations", "name"),
	def("Source", "sources", "name"),

	// Filters and custom fields
	def("Filter", "filters", "master_user_id", "module", "name", "match_type", "is_default"),
	def("FilterCondition", "filter_conditions", "filter_id", "field", "operator", "value", "position"),
	def("CustomField", "custom_fields", "module", "label", "field_type", "options", "is_required", "position"),
	def("CustomFieldValue", "custom_field_values", "custom_field_id", "record_id", "value"),

	// Webhooks, imports, exports
	def("Webhook", "webhooks", "url", "secret", "module", "event", "is_active"),
	def("WebhookLog", "webhook_logs", "webhook_id", "status_code", "payload", "delivered_at"),
	def("ImportJob", "import_jobs", "master_user_id", "module", "file_id", "status", "total_rows", "processed_rows", "failed_rows", "finished_at"),
	def("ImportRow", "import_rows", "import_job_id", "row_number", "raw", "status", "error"),
	def("ExportJob", "export_jobs", "master_user_id", "module", "file_id", "status", "finished_at"),

	// Reporting and goals
	def("Report", "reports", "name", "module", "owner_id", "definition", "is_shared"),
	def("ReportSchedule", "report_schedules", "report_id", "cron", "recipients", "last_run_at"),
	def("Dashboard", "dashboards", "name", "owner_id", "is_default"),
	def("DashboardWidget", "dashboard_widgets", "dashboard_id", "report_id", "widget_type", "position", "settings"),
	def("Goal", "goals", "master_user_id", "team_id", "metric", "target_value", "period_start", "period_end"),
	def("GoalProgress", "goal_progresses", "goal_id", "recorded_at", "value"),

	// Calendar and drive sync
	def("CalendarAccount", "calendar_accounts", "master_user_id", "provider", "external_id", "sync_token", "last_synced_at"),
	def("CalendarEvent", "calendar_events", "calendar_account_id", "activity_id", "external_id", "starts_at", "ends_at", "synced_at"),
	def("DriveAccount", "drive_accounts", "master_user_id", "provider", "external_id", "last_synced_at"),
	def("DriveFile", "drive_files", "drive_account_id", "file_id", "external_id", "synced_at"),

	// Notifications and audit
	def("Notification", "notifications", "master_user_id", "kind", "payload", "read_at"),
	def("NotificationPreference", "notification_preferences", "master_user_id", "kind", "email_enabled", "in_app_enabled"),
	def("AuditLog", "audit_logs", "master_user_id", "module", "record_id", "action", "changes"),
	def("Setting", "settings", "key", "value"),
}

// def builds a Definition with the conventional id primary key and
// timestamp columns every tenant table carries.
func def(name, table string, columns ...string) Definition {
	cols := make([]string, 0, len(columns)+3)
	cols = append(cols, "id")
	cols = append(cols, columns...)
	cols = append(cols, "created_at", "updated_at")
	return Definition{
		Name:    name,
		Table:   table,
		PK:      "id",
		Columns: cols,
	}
}

// Definitions returns the static entity set. Callers get a copy of the
// slice header only; the table itself is never mutated after init.
func Definitions() []Definition {
	return definitions
}
