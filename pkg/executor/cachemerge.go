package executor

import (
	"github.com/chatflow-dev/scenariorunner/pkg/actionbus"
	"github.com/chatflow-dev/scenariorunner/pkg/scenario"
	"github.com/chatflow-dev/scenariorunner/pkg/value"
)

// mergeStepResult implements component J: folding one step's action result
// back into the accumulated scenario data. `_async_action` handles are
// always merged into the shared data._async_action map regardless of
// namespacing (wait_for_action needs to find them by action_id from
// anywhere downstream); the remaining response_data is renamed per
// `_response_key`, then merged into data._cache[namespace] when the step
// declares `_namespace`, or directly into data._cache otherwise.
func mergeStepResult(data value.Map, step scenario.Step, envelope actionbus.Envelope, cfg actionbus.ActionConfig) value.Map {
	responseData := value.Map{}
	for k, v := range envelope.ResponseData {
		responseData[k] = v
	}

	if async, ok := responseData["_async_action"].(value.Map); ok {
		delete(responseData, "_async_action")
		existing, _ := data["_async_action"].(value.Map)
		if existing == nil {
			existing = value.Map{}
		}
		merged, _ := value.DeepMerge(existing, async).(value.Map)
		data["_async_action"] = merged
	}

	if key, ok := step.Params["_response_key"].(string); ok && key != "" {
		responseData = renameReplaceableField(responseData, cfg, key)
	}

	if ns, ok := step.Params["_namespace"].(string); ok && ns != "" {
		cache, _ := data["_cache"].(value.Map)
		if cache == nil {
			cache = value.Map{}
		}
		existingNS, _ := cache[ns].(value.Map)
		if existingNS == nil {
			existingNS = value.Map{}
		}
		merged, _ := value.DeepMerge(existingNS, responseData).(value.Map)
		cache[ns] = merged
		data["_cache"] = cache
		return data
	}

	cache, _ := data["_cache"].(value.Map)
	if cache == nil {
		cache = value.Map{}
	}
	merged, _ := value.DeepMerge(cache, responseData).(value.Map)
	data["_cache"] = merged
	return data
}

// renameReplaceableField moves the sole output field an action marked
// replaceable (ActionConfig.OutputFields) to the custom key a step
// requested via `_response_key`. Fields not marked replaceable, and
// actions with more than one candidate, are left untouched — the rename
// only applies to the unambiguous primary output.
func renameReplaceableField(responseData value.Map, cfg actionbus.ActionConfig, newKey string) value.Map {
	var replaceableField string
	count := 0
	for field, replaceable := range cfg.OutputFields {
		if replaceable {
			replaceableField = field
			count++
		}
	}
	if count != 1 {
		return responseData
	}
	v, ok := responseData[replaceableField]
	if !ok {
		return responseData
	}
	out := value.Map{}
	for k, val := range responseData {
		if k == replaceableField {
			continue
		}
		out[k] = val
	}
	out[newKey] = v
	return out
}
