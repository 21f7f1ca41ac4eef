package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"
)

// ssmParamPrefix marks keys whose value is an SSM parameter name, e.g.
// SSM_PARAM_SUPABASE_DB_PASSWORD=/portfolio/prod/db-password fills SUPABASE_DB_PASSWORD.
const ssmParamPrefix = "SSM_PARAM_"

type parameterGetter interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// ResolveSSMParameters replaces SSM_PARAM_* references with their decrypted values.
// Nothing is contacted when no reference is configured.
func ResolveSSMParameters(ctx context.Context, config map[string]string) error {
	if len(ssmReferences(config)) == 0 {
		return nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("load aws config: %w", err)
	}

	return resolveParameters(ctx, ssm.NewFromConfig(awsCfg), config)
}

func resolveParameters(ctx context.Context, client parameterGetter, config map[string]string) error {
	for key, name := range ssmReferences(config) {
		out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
			Name:           aws.String(name),
			WithDecryption: aws.Bool(true),
		})
		if err != nil {
			return fmt.Errorf("get ssm parameter %s: %w", name, err)
		}
		if out.Parameter == nil || out.Parameter.Value == nil {
			return fmt.Errorf("ssm parameter %s has no value", name)
		}

		config[key] = aws.ToString(out.Parameter.Value)
		log.Debug().Str("key", key).Str("parameter", name).Msg("resolved config value from ssm")
	}
	return nil
}

func ssmReferences(config map[string]string) map[string]string {
	refs := make(map[string]string)
	for key, value := range config {
		if strings.HasPrefix(key, ssmParamPrefix) && value != "" {
			refs[strings.TrimPrefix(key, ssmParamPrefix)] = value
		}
	}
	return refs
}
