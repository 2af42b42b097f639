package prompt

// JSON Schemas for each stage's reply. Compiled once at init; a reply
// that fails validation is treated the same as a transport failure.

const financialProfileSchemaJSON = `{
  "type": "object",
  "required": [
    "income_pattern", "income_stability", "debt_load",
    "monthly_surplus_estimate_inr", "financial_vulnerability",
    "profile_summary", "expense_breakdown", "risk_scores", "income_vs_expense"
  ],
  "properties": {
    "income_pattern": {"enum": ["seasonal", "mixed", "daily"]},
    "income_stability": {"enum": ["stable", "moderate", "volatile"]},
    "debt_load": {"enum": ["low", "moderate", "high", "critical"]},
    "monthly_surplus_estimate_inr": {"type": "number"},
    "financial_vulnerability": {"enum": ["low", "medium", "high"]},
    "confidence": {"enum": ["high", "medium", "low"]},
    "confidence_reason": {"type": "string"},
    "key_financial_risks": {"type": "array", "items": {"type": "string"}},
    "profile_summary": {"type": "string"},
    "expense_breakdown": {
      "type": "array",
      "minItems": 4,
      "items": {
        "type": "object",
        "required": ["label", "value"],
        "properties": {
          "label": {"type": "string"},
          "value": {"type": "number"},
          "color": {"type": "string"}
        }
      }
    },
    "risk_scores": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["label", "score"],
        "properties": {
          "label": {"type": "string"},
          "score": {"type": "integer", "minimum": 0, "maximum": 100},
          "description": {"type": "string"}
        }
      }
    },
    "income_vs_expense": {
      "type": "object",
      "required": ["income", "expenses", "surplus"],
      "properties": {
        "income": {"type": "number"},
        "expenses": {"type": "number"},
        "surplus": {"type": "number"}
      }
    }
  }
}`

const schemeAssessmentsSchemaJSON = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["scheme_id", "eligible", "suitability", "priority"],
    "properties": {
      "scheme_id": {"type": "string"},
      "eligible": {"type": "boolean"},
      "suitability": {"enum": ["recommended", "suitable", "low_value", "not_suitable"]},
      "suitability_label": {"type": "string"},
      "reason": {"type": "string"},
      "benefit_effort_score": {"type": "integer", "minimum": 1, "maximum": 10},
      "priority": {"type": "integer", "minimum": 1},
      "action_required": {"type": "string"}
    }
  }
}`

const loanAssessmentSchemaJSON = `{
  "type": "object",
  "required": ["assessed", "label", "reasoning", "key_risk"],
  "properties": {
    "assessed": {"const": true},
    "label": {"enum": ["suitable", "risky", "not_recommended"]},
    "label_display": {"type": "string"},
    "reasoning": {"type": "string"},
    "key_risk": {"type": "string"},
    "risk_factors": {"type": "array", "items": {"type": "string"}},
    "emi_concern": {"type": "boolean"},
    "emi_concern_detail": {"type": ["string", "null"]},
    "safer_alternative": {"type": ["string", "null"]},
    "confidence": {"enum": ["high", "medium", "low"]},
    "estimated_interest_rate": {"type": "string"},
    "recommended_tenure_months": {"type": "integer"},
    "repayment_strategy": {"enum": ["seasonal", "monthly", "bullet"]},
    "checklist": {"type": "array", "items": {"type": "string"}},
    "repayment_analysis": {"$ref": "#/$defs/section"},
    "cash_flow_analysis": {"$ref": "#/$defs/section"},
    "debt_burden_analysis": {"$ref": "#/$defs/section"},
    "shock_resilience_analysis": {"$ref": "#/$defs/section"},
    "purpose_evaluation": {"$ref": "#/$defs/section"}
  },
  "$defs": {
    "section": {
      "type": "object",
      "required": ["verdict", "detail"],
      "properties": {
        "verdict": {"type": "string"},
        "detail": {"type": "string"}
      }
    }
  }
}`

const decisionSchemaJSON = `{
  "type": "object",
  "required": [
    "recommendation", "headline", "reasoning", "priority_actions",
    "documents_needed", "timeline_weeks", "overall_risk_level"
  ],
  "properties": {
    "recommendation": {
      "enum": ["scheme_first", "loan_first", "both_together", "scheme_only", "loan_only", "neither"]
    },
    "headline": {"type": "string"},
    "reasoning": {"type": "string"},
    "priority_actions": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["step", "action"],
        "properties": {
          "step": {"type": "integer"},
          "action": {"type": "string"},
          "why": {"type": "string"}
        }
      }
    },
    "what_to_avoid": {"type": "string"},
    "documents_needed": {"type": "array", "items": {"type": "string"}},
    "timeline_weeks": {"type": "integer", "minimum": 0},
    "overall_risk_level": {"enum": ["low", "medium", "high"]},
    "success_likelihood": {"enum": ["high", "medium", "low"]},
    "key_benefit": {"type": "string"}
  }
}`

const repaymentCommentarySchemaJSON = `{
  "type": "object",
  "required": ["seasonal_commentary"],
  "properties": {
    "seasonal_commentary": {"type": "string"},
    "stress_months": {"type": "array", "items": {"type": "integer", "minimum": 1, "maximum": 120}},
    "advice": {"type": "array", "items": {"type": "string"}}
  }
}`

const documentRiskSchemaJSON = `{
  "type": "object",
  "required": ["risk_level", "danger_score", "flagged_clauses", "verdict"],
  "properties": {
    "risk_level": {"enum": ["low", "medium", "high", "critical"]},
    "danger_score": {"type": "integer", "minimum": 0, "maximum": 100},
    "flagged_clauses": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["clause", "severity", "explanation"],
        "properties": {
          "clause": {"type": "string"},
          "severity": {"enum": ["low", "medium", "high", "critical"]},
          "explanation": {"type": "string"},
          "impact": {"type": "string"},
          "recommendation": {"type": "string"}
        }
      }
    },
    "favorable_clauses": {"type": "array", "items": {"type": "string"}},
    "key_terms": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["term", "value"],
        "properties": {
          "term": {"type": "string"},
          "value": {"type": "string"}
        }
      }
    },
    "verdict": {"type": "string"}
  }
}`

var (
	FinancialProfileSchema    = mustCompile("financial_profile.json", financialProfileSchemaJSON)
	SchemeAssessmentsSchema   = mustCompile("scheme_assessments.json", schemeAssessmentsSchemaJSON)
	LoanAssessmentSchema      = mustCompile("loan_assessment.json", loanAssessmentSchemaJSON)
	DecisionSchema            = mustCompile("decision.json", decisionSchemaJSON)
	RepaymentCommentarySchema = mustCompile("repayment_commentary.json", repaymentCommentarySchemaJSON)
	DocumentRiskSchema        = mustCompile("document_risk.json", documentRiskSchemaJSON)
)
