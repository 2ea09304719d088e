package postgres

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CREATE SCHOLARSHIPS
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: Create scholarships table
-- Version: 001

CREATE TABLE IF NOT EXISTS scholarships (
    id UUID PRIMARY KEY,
    college_id UUID NOT NULL,
    name VARCHAR(150) NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    category VARCHAR(20) NOT NULL,
    amount BIGINT NOT NULL,
    total_seats INTEGER NOT NULL,
    filled_seats INTEGER NOT NULL DEFAULT 0,
    min_cgpa DECIMAL(4,2),
    max_income BIGINT,
    deadline TIMESTAMP WITH TIME ZONE,
    status VARCHAR(20) NOT NULL DEFAULT 'draft',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_category CHECK (category IN ('merit', 'need', 'sports', 'government')),
    CONSTRAINT valid_status CHECK (status IN ('draft', 'active', 'expired')),
    CONSTRAINT valid_amount CHECK (amount > 0),
    CONSTRAINT valid_total_seats CHECK (total_seats >= 0),
    -- Seat invariant: the conditional UPDATE in the repository is the only
    -- writer of filled_seats, the check is the backstop.
    CONSTRAINT valid_filled_seats CHECK (filled_seats >= 0 AND filled_seats <= total_seats),
    CONSTRAINT valid_min_cgpa CHECK (min_cgpa IS NULL OR (min_cgpa >= 0 AND min_cgpa <= 10)),
    CONSTRAINT valid_max_income CHECK (max_income IS NULL OR max_income > 0)
);

CREATE INDEX IF NOT EXISTS idx_scholarships_college_id ON scholarships(college_id);
CREATE INDEX IF NOT EXISTS idx_scholarships_status ON scholarships(status);
CREATE INDEX IF NOT EXISTS idx_scholarships_college_status ON scholarships(college_id, status);
CREATE INDEX IF NOT EXISTS idx_scholarships_deadline ON scholarships(deadline) WHERE status = 'active';
`

const migration001Down = `
DROP TABLE IF EXISTS scholarships;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: CREATE APPLICATIONS
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
-- Migration: Create applications table
-- Version: 002

CREATE TABLE IF NOT EXISTS applications (
    id UUID PRIMARY KEY,
    scholarship_id UUID NOT NULL REFERENCES scholarships(id) ON DELETE CASCADE,
    college_id UUID NOT NULL,
    student_name VARCHAR(100) NOT NULL,
    student_roll VARCHAR(20) NOT NULL,
    student_email VARCHAR(254) NOT NULL DEFAULT '',
    cgpa DECIMAL(4,2) NOT NULL,
    family_income BIGINT NOT NULL,
    department VARCHAR(100) NOT NULL,
    year_of_study INTEGER NOT NULL,
    documents JSONB NOT NULL DEFAULT '[]'::jsonb,
    score INTEGER NOT NULL DEFAULT 0,
    score_academic INTEGER NOT NULL DEFAULT 0,
    score_financial INTEGER NOT NULL DEFAULT 0,
    score_extracurricular INTEGER NOT NULL DEFAULT 0,
    score_essay INTEGER NOT NULL DEFAULT 0,
    essay_rating INTEGER NOT NULL DEFAULT 0,
    status VARCHAR(20) NOT NULL DEFAULT 'pending',
    applied_at TIMESTAMP WITH TIME ZONE NOT NULL,
    reviewed_at TIMESTAMP WITH TIME ZONE,
    reviewed_by VARCHAR(64) NOT NULL DEFAULT '',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_status CHECK (status IN ('pending', 'approved', 'rejected')),
    CONSTRAINT valid_cgpa CHECK (cgpa >= 0 AND cgpa <= 10),
    CONSTRAINT valid_family_income CHECK (family_income >= 0),
    CONSTRAINT valid_year_of_study CHECK (year_of_study >= 1 AND year_of_study <= 6),
    CONSTRAINT valid_score CHECK (score >= 0 AND score <= 100),
    CONSTRAINT valid_essay_rating CHECK (essay_rating >= 0 AND essay_rating <= 10),
    CONSTRAINT one_application_per_student UNIQUE (scholarship_id, student_roll)
);

CREATE INDEX IF NOT EXISTS idx_applications_scholarship_id ON applications(scholarship_id);
CREATE INDEX IF NOT EXISTS idx_applications_college_id ON applications(college_id);
CREATE INDEX IF NOT EXISTS idx_applications_status ON applications(status);
CREATE INDEX IF NOT EXISTS idx_applications_scholarship_status ON applications(scholarship_id, status);

-- Deterministic ranking order: applied_at ascending, ID as final tiebreak.
CREATE INDEX IF NOT EXISTS idx_applications_applied_at ON applications(scholarship_id, applied_at, id);
`

const migration002Down = `
DROP TABLE IF EXISTS applications;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 003: CREATE AUDIT LOG
// ══════════════════════════════════════════════════════════════════════════════

const migration003Up = `
-- Migration: Create audit log table
-- Version: 003

-- Append-only: no UPDATE or DELETE path exists in the repository.
CREATE TABLE IF NOT EXISTS audit_log (
    id UUID PRIMARY KEY,
    college_id UUID NOT NULL,
    action VARCHAR(20) NOT NULL,
    entity_type VARCHAR(20) NOT NULL,
    entity_id VARCHAR(64) NOT NULL,
    actor_id VARCHAR(64) NOT NULL DEFAULT '',
    details JSONB NOT NULL DEFAULT '{}'::jsonb,
    ip_address VARCHAR(45) NOT NULL DEFAULT '',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_action CHECK (action IN ('create', 'update', 'delete', 'approve', 'reject', 'allocate', 'login')),
    CONSTRAINT valid_entity_type CHECK (entity_type IN ('scholarship', 'application', 'admin'))
);

CREATE INDEX IF NOT EXISTS idx_audit_log_college_id ON audit_log(college_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_audit_log_entity_id ON audit_log(entity_id);
CREATE INDEX IF NOT EXISTS idx_audit_log_action ON audit_log(college_id, action);
`

const migration003Down = `
DROP TABLE IF EXISTS audit_log;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 004: CREATE ADMIN PROFILES
// ══════════════════════════════════════════════════════════════════════════════

const migration004Up = `
-- Migration: Create admin profiles table
-- Version: 004

CREATE TABLE IF NOT EXISTS admin_profiles (
    id UUID PRIMARY KEY,
    college_id UUID NOT NULL,
    full_name VARCHAR(100) NOT NULL,
    email VARCHAR(254) NOT NULL,
    password_hash VARCHAR(100) NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT unique_admin_email UNIQUE (email)
);

CREATE INDEX IF NOT EXISTS idx_admin_profiles_college_id ON admin_profiles(college_id);
`

const migration004Down = `
DROP TABLE IF EXISTS admin_profiles;
`
